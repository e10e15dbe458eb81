// Package flow holds the questionnaire state machine: the current answer
// set plus the step pointer, with clamped navigation and best-effort
// persistence on every mutation.
package flow

import (
	"leitfaden/domain"
	"leitfaden/logging"
	"leitfaden/steps"
)

// Saver is the persistence collaborator. Writes are fire-and-forget;
// failures are logged and swallowed, never surfaced to the flow.
type Saver interface {
	Save(*domain.Answers) error
}

// NopSaver discards all writes. Used for SSH-served sessions which live
// only in memory.
type NopSaver struct{}

func (NopSaver) Save(*domain.Answers) error { return nil }

// Controller orchestrates the questionnaire: it owns the answers and the
// step index, re-derives the step list on every mutation, and clamps the
// index to the valid range.
type Controller struct {
	answers   *domain.Answers
	generator *steps.Generator
	saver     Saver
	stepIndex int
	stepList  []steps.Step
}

// New creates a controller. A nil initial answer set starts a fresh
// session; a nil saver disables persistence.
func New(initial *domain.Answers, generator *steps.Generator, saver Saver) *Controller {
	if initial == nil {
		initial = domain.NewAnswers()
	}
	if generator == nil {
		generator = steps.NewGenerator(nil)
	}
	if saver == nil {
		saver = NopSaver{}
	}
	c := &Controller{
		answers:   initial,
		generator: generator,
		saver:     saver,
	}
	c.stepList = generator.Build(initial)
	return c
}

// Answers returns an immutable snapshot of the current answers.
func (c *Controller) Answers() *domain.Answers {
	return c.answers.Clone()
}

// Steps returns the current step list.
func (c *Controller) Steps() []steps.Step {
	return c.stepList
}

// StepIndex returns the current step pointer.
func (c *Controller) StepIndex() int {
	return c.stepIndex
}

// Current returns the step the pointer is on.
func (c *Controller) Current() steps.Step {
	return c.stepList[c.stepIndex]
}

// AtLastStep reports whether the pointer is on the final step.
func (c *Controller) AtLastStep() bool {
	return c.stepIndex == len(c.stepList)-1
}

// Next advances the step pointer, clamped to the last step. Calling it
// there is a no-op.
func (c *Controller) Next() {
	if c.stepIndex < len(c.stepList)-1 {
		c.stepIndex++
	}
}

// Prev retreats the step pointer, clamped to the first step.
func (c *Controller) Prev() {
	if c.stepIndex > 0 {
		c.stepIndex--
	}
}

// Apply applies a partial update to the answers, regenerates the step
// list, clamps the pointer, and persists the session best-effort. Data of
// steps that disappeared from the list stays in the answers untouched.
func (c *Controller) Apply(p domain.Patch) {
	next := c.answers.Clone()
	p(next)
	c.answers = next
	c.stepList = c.generator.Build(next)
	c.clamp()
	c.save()
}

// Reset replaces the session with a fresh default: new identity, new
// timestamp, pointer back to the first step.
func (c *Controller) Reset() {
	c.answers = domain.NewAnswers()
	c.stepList = c.generator.Build(c.answers)
	c.stepIndex = 0
	c.save()
}

func (c *Controller) clamp() {
	if c.stepIndex > len(c.stepList)-1 {
		c.stepIndex = len(c.stepList) - 1
	}
	if c.stepIndex < 0 {
		c.stepIndex = 0
	}
}

func (c *Controller) save() {
	if err := c.saver.Save(c.answers); err != nil {
		// Persistence is best-effort: the session keeps working in memory.
		logging.Logger.Warn("Failed to persist session", "error", err,
			"session_id", c.answers.SessionID)
	}
}
