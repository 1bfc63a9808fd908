package evaluator

import (
	"regexp"
)

type safetyRule struct {
	pattern  string
	severity Severity
	message  string
	match    func(src string) int
}

func regexRule(pattern string, severity Severity, re *regexp.Regexp, message string) safetyRule {
	return safetyRule{
		pattern:  pattern,
		severity: severity,
		message:  message,
		match: func(src string) int {
			return len(re.FindAllStringIndex(src, -1))
		},
	}
}

var safetyRules = []safetyRule{
	regexRule("eval", SeverityBlock,
		regexp.MustCompile(`(?:^|[^.\w$])eval\s*\(`),
		"Use of eval() is not allowed"),
	regexRule("Function", SeverityBlock,
		regexp.MustCompile(`(?:^|[^.\w$])(?:new\s+)?Function\s*\(`),
		"Use of the Function constructor is not allowed"),
	regexRule("__proto__", SeverityBlock,
		regexp.MustCompile(`__proto__`),
		"Direct access to __proto__ is not allowed"),
	regexRule("innerHTML", SeverityWarn,
		regexp.MustCompile(`\.innerHTML\s*\+?=[^=]`),
		"Assigning to innerHTML can introduce XSS vulnerabilities"),
	regexRule("constructor-access", SeverityWarn,
		regexp.MustCompile("\\[\\s*['\"`](?:constructor|prototype)['\"`]\\s*\\]"),
		"Bracket access to constructor or prototype is discouraged"),
	{
		pattern:  "infinite-loop",
		severity: SeverityWarn,
		message:  "Possible infinite loop: while(true) or for(;;) without a break",
		match:    countUnbrokenLoops,
	},
}

// Scan checks every source for blocking and advisory patterns. Each pattern
// is reported once with the largest occurrence count seen in any source, so
// scanning the original and the transpiled text together does not double
// count.
func Scan(sources ...string) []SafetyFinding {
	var findings []SafetyFinding
	for _, rule := range safetyRules {
		count := 0
		for _, src := range sources {
			count = max(count, rule.match(src))
		}
		if count == 0 {
			continue
		}
		findings = append(findings, SafetyFinding{
			Pattern:  rule.pattern,
			Severity: rule.severity,
			Message:  rule.message,
			Count:    count,
		})
	}
	return findings
}

// Partition splits findings into blocking and advisory.
func Partition(findings []SafetyFinding) (blocking, advisory []SafetyFinding) {
	for _, f := range findings {
		if f.Severity == SeverityBlock {
			blocking = append(blocking, f)
		} else {
			advisory = append(advisory, f)
		}
	}
	return blocking, advisory
}

var (
	loopHeadRe = regexp.MustCompile(`\b(?:while\s*\(\s*(?:true|1)\s*\)|for\s*\(\s*;\s*;\s*\))`)
	breakRe    = regexp.MustCompile(`\bbreak\b`)
)

// countUnbrokenLoops counts loop heads that never terminate on their own and
// whose body has no break keyword. The body is the following brace block, or
// the single statement up to the next semicolon.
func countUnbrokenLoops(src string) int {
	count := 0
	for _, loc := range loopHeadRe.FindAllStringIndex(src, -1) {
		if !breakRe.MatchString(loopBody(src, loc[1])) {
			count++
		}
	}
	return count
}

func loopBody(src string, start int) string {
	i := start
	for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r') {
		i++
	}
	if i >= len(src) {
		return ""
	}
	if src[i] != '{' {
		for j := i; j < len(src); j++ {
			if src[j] == ';' || src[j] == '\n' {
				return src[i:j]
			}
		}
		return src[i:]
	}

	depth := 0
	for j := i; j < len(src); j++ {
		switch src[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[i : j+1]
			}
		}
	}
	return src[i:]
}
