// Package prompt holds the system messages sent to the model for each stage,
// the evaluation rubric prompt and the canned Meta-Mode reflection.
package prompt

import _ "embed"

// Template files embedded at compile time
var (
	//go:embed templates/stage0.txt
	Stage0Template string

	//go:embed templates/stage1.txt
	Stage1Template string

	//go:embed templates/stage2.txt
	Stage2Template string

	//go:embed templates/stage3.txt
	Stage3Template string

	//go:embed templates/stage4.txt
	Stage4Template string

	//go:embed templates/meta.txt
	MetaTemplate string

	//go:embed templates/resize.txt
	ResizeTemplate string

	//go:embed templates/evaluation.txt
	EvaluationTemplate string

	//go:embed templates/evaluation-input.txt
	EvaluationInputTemplate string

	//go:embed templates/meta-response.txt
	MetaResponseTemplate string
)
