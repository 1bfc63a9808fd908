package evaluator

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

var deniedNames = map[string]bool{
	"constructor": true,
	"prototype":   true,
	"__proto__":   true,
}

// transpilerHelpers are the runtime helpers esbuild may emit at the top of
// lowered output.
var transpilerHelpers = map[string]bool{
	"__create": true, "__defProp": true, "__defProps": true, "__getOwnPropDesc": true,
	"__getOwnPropDescs": true, "__getOwnPropNames": true, "__getOwnPropSymbols": true,
	"__getProtoOf": true, "__hasOwnProp": true, "__propIsEnum": true, "__reflectGet": true,
	"__knownSymbol": true, "__typeError": true, "__defNormalProp": true, "__spreadValues": true,
	"__spreadProps": true, "__markAsModule": true, "__name": true, "__require": true,
	"__esm": true, "__commonJS": true, "__export": true, "__copyProps": true,
	"__reExport": true, "__toESM": true, "__toCommonJS": true, "__toBinary": true,
	"__objRest": true, "__restKey": true, "__decorateClass": true, "__decorateParam": true,
	"__decoratorStart": true, "__decoratorStrings": true, "__decoratorContext": true,
	"__decoratorMetadata": true, "__runInitializers": true, "__decorateElement": true,
	"__esDecorate": true, "__publicField": true, "__accessCheck": true, "__privateIn": true,
	"__privateGet": true, "__privateAdd": true, "__privateSet": true, "__privateMethod": true,
	"__privateWrapper": true, "__earlyAccess": true, "__superGet": true, "__superSet": true,
	"__superWrapper": true, "__async": true, "__await": true, "__asyncGenerator": true,
	"__yieldStar": true, "__forAwait": true, "__template": true, "__using": true,
	"__callDispose": true, "__checkLexicalBinding": true,
}

// allowedName excludes names that are unsafe to call by lookup: the fixed
// denylist, dunder-wrapped identifiers and transpiler helpers.
func allowedName(name string) bool {
	if name == "" || deniedNames[name] || transpilerHelpers[name] {
		return false
	}
	return !(len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"))
}

// Candidates lists top-level function-like bindings in declaration order:
// function declarations of every flavor, and var/let/const bindings whose
// initializer is a function or arrow expression. Source the parser rejects
// is scanned with declaration-shaped patterns instead.
func Candidates(script string) []string {
	program, err := parser.ParseFile(nil, "", script, 0)
	if err != nil {
		return patternCandidates(script)
	}

	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if allowedName(name) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, stmt := range program.Body {
		switch s := stmt.(type) {
		case *ast.FunctionDeclaration:
			if s.Function != nil && s.Function.Name != nil {
				add(string(s.Function.Name.Name))
			}
		case *ast.VariableStatement:
			for _, b := range s.List {
				add(bindingName(b))
			}
		case *ast.LexicalDeclaration:
			for _, b := range s.List {
				add(bindingName(b))
			}
		}
	}
	return names
}

// bindingName returns the bound identifier when the initializer is a
// function expression, or "" otherwise.
func bindingName(b *ast.Binding) string {
	id, ok := b.Target.(*ast.Identifier)
	if !ok {
		return ""
	}
	switch b.Initializer.(type) {
	case *ast.FunctionLiteral, *ast.ArrowFunctionLiteral:
		return string(id.Name)
	}
	return ""
}

var declarationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*(?:async[ \t]+)?function[ \t]*\*?[ \t]*([A-Za-z_$][\w$]*)[ \t]*\(`),
	regexp.MustCompile(`(?m)^[ \t]*(?:const|let|var)[ \t]+([A-Za-z_$][\w$]*)[ \t]*=[ \t]*(?:async[ \t]*)?(?:function\b|\([^)]*\)[ \t]*=>|[A-Za-z_$][\w$]*[ \t]*=>)`),
}

// patternCandidates finds declaration shapes in source that does not parse.
func patternCandidates(script string) []string {
	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	for _, re := range declarationPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(script, -1) {
			hits = append(hits, hit{pos: m[0], name: script[m[2]:m[3]]})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var names []string
	seen := make(map[string]bool)
	for _, h := range hits {
		if allowedName(h.name) && !seen[h.name] {
			seen[h.name] = true
			names = append(names, h.name)
		}
	}
	return names
}

// Select orders candidates by preference: the explicit name when it is a
// candidate, then the first candidate named in a test-case description
// (case-insensitive, test cases in order), then declaration order. The
// remaining candidates follow in declaration order as fallbacks.
func Select(candidates []string, explicit string, tests []TestCase) []string {
	if len(candidates) == 0 {
		return nil
	}

	first := ""
	if explicit != "" && slices.Contains(candidates, explicit) {
		first = explicit
	}
	if first == "" {
	search:
		for _, tc := range tests {
			desc := strings.ToLower(tc.Description)
			if desc == "" {
				continue
			}
			for _, name := range candidates {
				if strings.Contains(desc, strings.ToLower(name)) {
					first = name
					break search
				}
			}
		}
	}
	if first == "" {
		first = candidates[0]
	}

	order := make([]string, 0, len(candidates))
	order = append(order, first)
	for _, name := range candidates {
		if name != first {
			order = append(order, name)
		}
	}
	return order
}
