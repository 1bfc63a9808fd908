package evaluator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

var (
	exportDefaultRe = regexp.MustCompile(`(?m)^([ \t]*)export[ \t]+default[ \t]+`)
	exportRe        = regexp.MustCompile(`(?m)^([ \t]*)export[ \t]+`)
	exportListRe    = regexp.MustCompile(`(?m)^[ \t]*export[ \t]*\{[^}]*\}[ \t]*;?[ \t]*$`)
	importRe        = regexp.MustCompile(`(?m)^[ \t]*import[ \t]*[\w{*'"]`)
	namedDefaultRe  = regexp.MustCompile(`^(?:async[ \t]+)?(?:function[ \t]*\*?[ \t]*|class[ \t]+)[A-Za-z_$]`)
)

// DefaultExportName binds an anonymous default export so the script stays
// valid and the value remains reachable.
const DefaultExportName = "defaultExport"

// Transpile lowers TypeScript (or plain JavaScript) to an ES2020 script the
// sandbox can run. Module syntax is reduced to plain declarations; imports
// are rejected. Warnings are returned as readable lines.
func Transpile(source string) (string, []string, *Error) {
	result := api.Transform(source, api.TransformOptions{
		Loader:     api.LoaderTS,
		Target:     api.ES2020,
		Sourcefile: "submission.ts",
		LogLevel:   api.LogLevelSilent,
		Supported: map[string]bool{
			"async-generator": false,
			"for-await":       false,
		},
	})

	if len(result.Errors) > 0 {
		return "", nil, newError(KindCompilation, nil, "Compilation error: %s", formatMessages(result.Errors))
	}

	code := string(result.Code)
	if importRe.MatchString(code) {
		return "", nil, newError(KindCompilation, nil,
			"Compilation error: import statements are not supported; define everything in a single file")
	}
	code = exportListRe.ReplaceAllString(code, "")
	code = stripDefaultExports(code)
	code = exportRe.ReplaceAllString(code, "$1")

	var warnings []string
	for _, msg := range result.Warnings {
		warnings = append(warnings, formatMessage(msg))
	}
	return code, warnings, nil
}

// stripDefaultExports drops "export default" in front of named declarations
// and turns every other default export into a var binding.
func stripDefaultExports(code string) string {
	var b strings.Builder
	last := 0
	for _, m := range exportDefaultRe.FindAllStringSubmatchIndex(code, -1) {
		b.WriteString(code[last:m[0]])
		b.WriteString(code[m[2]:m[3]])
		rest := code[m[1]:]
		if !namedDefaultRe.MatchString(rest) || strings.HasPrefix(rest, "class extends") {
			b.WriteString("var " + DefaultExportName + " = ")
		}
		last = m[1]
	}
	b.WriteString(code[last:])
	return b.String()
}

func formatMessages(msgs []api.Message) string {
	parts := make([]string, len(msgs))
	for i, msg := range msgs {
		parts[i] = formatMessage(msg)
	}
	return strings.Join(parts, "; ")
}

func formatMessage(msg api.Message) string {
	if msg.Location == nil {
		return msg.Text
	}
	return fmt.Sprintf("%s (line %d, column %d)", msg.Text, msg.Location.Line, msg.Location.Column+1)
}
