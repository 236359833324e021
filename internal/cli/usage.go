package cli

import (
	"github.com/spf13/cobra"
)

// helpTemplate renders the full reference for the root command; subcommands
// keep cobra's generated usage.
const helpTemplate = `{{if .HasParent}}{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{.UsageString}}{{else}}selfevo - staged-response validation engine and self-evolution loop

USAGE
  selfevo <command> [flags]

COMMANDS
  run                                    Interactive stage loop (multi-line input, end with EOF)
  parse [file|-]                         Parse model output through the structured-text waterfall
  validate --stage <s> [files...]        Validate responses against a stage exit rule
  score --stage <s> [--meta] [file|-]    Heuristic rubric scores for a response
  report [--since <dur>]                 Weekly self-patch report from stored interactions

FLAGS
  Model Endpoint:
    --api-base-url <url>                 OpenAI-compatible base URL (default: https://api.deepseek.com/v1)
    --model <name>                       Chat model (default: deepseek-chat)
    --temperature <float>                Sampling temperature (default: 0.7)
    --max-retry <int>                    Retries per model call (default: 3)
    --timeout <seconds>                  Per-request timeout (default: 120)

  Scoring & Storage:
    --scorer <heuristic|none>            Fallback scorer when self-evaluation fails (default: heuristic)
    --db <path>                          Interaction database (default: .selfevo/interactions.db)
    --journal <path>                     Ritual journal (default: .selfevo/patches.md)
    --ritual-day <weekday>               Weekday of the weekly self-patch ritual (default: monday)

  Output:
    -o, --format <text|json|yaml>        Output format (default: text)
    -v, --verbose                        Enable debug logging
    --config <path>                      Path to additional config file

  Help & Version:
    -h, --help                           Show this help text
    --version                            Show version, commit, build date

STAGES
  0 Context Seed   1 Brain Dump   2 Mind-Trace   3 Signal Scan   4 Rapid Prototyping   meta (or 5) Meta-Mode

ENVIRONMENT
  DEEPSEEK_API_KEY / OPENAI_API_KEY      API key
  DEEPSEEK_BASE_URL, DEEPSEEK_MODEL      Endpoint and model overrides
  SELFEVO_DB_PATH                        Interaction database override

EXIT CODES
  0   Success                            Command completed; every verdict met
  1   Error                              Invalid arguments, unreadable input, misconfiguration
  2   ValidationFailed                   validate saw at least one failed verdict
  3   ParseFailed                        parse fell through every strategy
  130 Interrupted                        SIGINT or SIGTERM received

EXAMPLES
  # Validate a saved Signal Scan response
  selfevo validate --stage 3 response.md

  # Validate under a negative constraint
  selfevo validate --stage 3 --prompt "no advice, only confirm" response.md

  # Parse a model reply as JSON
  selfevo parse -o json reply.txt

  # Last two weeks of insights
  selfevo report --since 336h
{{end}}`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
