package flow

import (
	"errors"
	"testing"

	"leitfaden/domain"
	"leitfaden/steps"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSaver captures every persisted snapshot
type recordingSaver struct {
	saves []*domain.Answers
}

func (r *recordingSaver) Save(a *domain.Answers) error {
	r.saves = append(r.saves, a)
	return nil
}

// failingSaver always errors
type failingSaver struct{}

func (failingSaver) Save(*domain.Answers) error {
	return errors.New("disk full")
}

func TestNewDefaults(t *testing.T) {
	c := New(nil, nil, nil)

	assert.NotNil(t, c.Answers())
	assert.Equal(t, 0, c.StepIndex())
	assert.Equal(t, steps.StepStammdaten, c.Current().ID)
	assert.NotEmpty(t, c.Steps())
}

func TestNavigationClamping(t *testing.T) {
	c := New(nil, nil, nil)

	// Prev on the first step is a no-op
	c.Prev()
	assert.Equal(t, 0, c.StepIndex())

	// Walk to the end
	last := len(c.Steps()) - 1
	for i := 0; i < last; i++ {
		c.Next()
	}
	assert.Equal(t, last, c.StepIndex())
	assert.True(t, c.AtLastStep())

	// Next on the last step is a no-op
	c.Next()
	assert.Equal(t, last, c.StepIndex())
}

func TestApplyRegeneratesStepList(t *testing.T) {
	c := New(nil, nil, nil)
	before := len(c.Steps())

	c.Apply(steps.SetSolarPresent(domain.Yes))

	assert.Equal(t, before+1, len(c.Steps()))
	assert.Equal(t, domain.Yes, c.Answers().Solar.Present)
}

func TestApplyClampsAfterStepRemoval(t *testing.T) {
	c := New(nil, nil, nil)
	c.Apply(steps.SetSolarPresent(domain.Yes))
	c.Apply(steps.SetPVPresent(domain.Yes))

	// Move to the last step, then shrink the list by two
	for !c.AtLastStep() {
		c.Next()
	}
	c.Apply(steps.SetSolarPresent(domain.No))
	c.Apply(steps.SetPVPresent(domain.No))

	assert.True(t, c.StepIndex() < len(c.Steps()))
	assert.True(t, c.AtLastStep())
	assert.Equal(t, steps.StepSummary, c.Current().ID)
}

func TestApplyKeepsOrphanedAnswers(t *testing.T) {
	size := 35.0

	c := New(nil, nil, nil)
	c.Apply(steps.SetSolarPresent(domain.Yes))
	c.Apply(steps.SetSolarSizeKnown(domain.Yes))
	c.Apply(steps.SetSolarSizeM2(&size))

	// Removing the step leaves its answers in the model
	c.Apply(steps.SetSolarPresent(domain.No))

	a := c.Answers()
	require.NotNil(t, a.Solar.SizeM2)
	assert.Equal(t, 35.0, *a.Solar.SizeM2)
}

func TestAnswersReturnsSnapshot(t *testing.T) {
	c := New(nil, nil, nil)

	snapshot := c.Answers()
	snapshot.Customer.Name = "Mutiert"

	assert.Empty(t, c.Answers().Customer.Name)
}

func TestApplyPersists(t *testing.T) {
	saver := &recordingSaver{}
	c := New(nil, nil, saver)

	c.Apply(steps.SetEmployee("Huber"))
	c.Apply(steps.SetSolarPresent(domain.Yes))

	require.Len(t, saver.saves, 2)
	assert.Equal(t, "Huber", saver.saves[1].Employee)
	assert.Equal(t, domain.Yes, saver.saves[1].Solar.Present)
}

func TestSaverFailureDoesNotBlockFlow(t *testing.T) {
	c := New(nil, nil, failingSaver{})

	c.Apply(steps.SetEmployee("Huber"))

	// The mutation sticks despite the failed write
	assert.Equal(t, "Huber", c.Answers().Employee)
}

func TestReset(t *testing.T) {
	c := New(nil, nil, nil)
	c.Apply(steps.SetSolarPresent(domain.Yes))
	c.Next()
	c.Next()
	oldID := c.Answers().SessionID

	c.Reset()

	assert.Equal(t, 0, c.StepIndex())
	assert.NotEqual(t, oldID, c.Answers().SessionID)
	assert.Equal(t, domain.Unknown, c.Answers().Solar.Present)
}

func TestResumeFromExistingAnswers(t *testing.T) {
	initial := domain.NewAnswers()
	initial.Solar.Present = domain.Yes
	initial.PV.Present = domain.Yes

	c := New(initial, nil, nil)

	// The step list reflects the resumed answers immediately
	assert.Len(t, c.Steps(), 8)
	assert.Equal(t, initial.SessionID, c.Answers().SessionID)
}
