package capture

import (
	"encoding/json"
	"strings"
	"text/template"

	"earthwater/history"
)

// The reproduction script is a JSON-lines document that can be piped straight
// into the bridge process: a setup request with the original seed followed by
// the trailing actions that reached the failure.
const replayTemplate = `{"cmd":"setup","args":{"seed":{{.Seed}},"scenario":{{json .Scenario}},"options":{}}}
{{range .Records}}{"cmd":"action","args":{"player":{{json .Participant}},"action":{{json .Action}}{{if .Arg}},"arg":{{json .Arg}}{{end}}}}
{{end}}`

var replayTmpl = template.Must(template.New("replay").Funcs(template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}).Parse(replayTemplate))

type replayData struct {
	Seed     int64
	Scenario string
	Records  []history.Record
}

func renderScript(seed int64, scenario string, records []history.Record) (string, error) {
	var sb strings.Builder
	err := replayTmpl.Execute(&sb, replayData{Seed: seed, Scenario: scenario, Records: records})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
