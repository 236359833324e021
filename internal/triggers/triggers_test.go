package triggers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/selfevo/internal/triggers"
)

// ---------------------------------------------------------------------------
// Meta-Mode detection
// ---------------------------------------------------------------------------

func TestIsMetaMode(t *testing.T) {
	tests := []struct {
		prompt string
		want   bool
	}{
		{"Let's switch to meta-mode", true},
		{"META MODE please", true},
		{"metamode", true},
		{"can we zoom out for a second", true},
		{"How did you decide on that plan?", true},
		{"how do you choose the themes", true},
		{"I'm curious about the process", true},
		{"curious about process here", true},
		{"Why did the framework skip stage 2?", true},
		{"How does this stage work?", true},
		{"explain the system to me", true},
		{"time for a system reflection", true},
		{"zoomout", true},
		{"metadata is broken", false},
		{"help me plan my week", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			assert.Equal(t, tt.want, triggers.IsMetaMode(tt.prompt))
		})
	}
}

func TestIsMetaReflection(t *testing.T) {
	assert.True(t, triggers.IsMetaReflection("[META] how is it going"))
	assert.True(t, triggers.IsMetaReflection("note [meta-review]"))
	assert.False(t, triggers.IsMetaReflection("meta without a tag"))
}

// ---------------------------------------------------------------------------
// Overwhelm and emotion
// ---------------------------------------------------------------------------

func TestDetectOverwhelm(t *testing.T) {
	tests := []struct {
		prompt string
		want   bool
	}{
		{"I'm so overwhelmed", true},
		{"Feeling STUCK", true},
		{"I can't decide between them", true},
		{"I can’t decide", true},
		{"this is too much", true},
		{"all good today", false},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			assert.Equal(t, tt.want, triggers.DetectOverwhelm(tt.prompt))
		})
	}
}

func TestDetectEmotion(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"I feel scattered and stuck", triggers.EmotionScattered},
		{"Stuck, and a bit heavy", triggers.EmotionHeavy},
		{"overwhelmed!", triggers.EmotionOverwhelmed},
		{"I'm stuck", triggers.EmotionStuck},
		{"so excited about this", triggers.EmotionExcited},
		{"frustrated again", triggers.EmotionFrustrated},
		{"Confused about next steps", triggers.EmotionConfused},
		{"I feel overwhelm", triggers.EmotionNeutral},
		{"heavyweight problem", triggers.EmotionNeutral},
		{"", triggers.EmotionNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			assert.Equal(t, tt.want, triggers.DetectEmotion(tt.prompt))
		})
	}
}
