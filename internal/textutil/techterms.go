package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// multiWordTech lists technology names that span more than one token.
var multiWordTech = []string{
	"machine learning",
	"deep learning",
	"natural language processing",
	"computer vision",
	"large language models",
	"ruby on rails",
	"spring boot",
	"react native",
	"google cloud platform",
	"google cloud",
	"amazon web services",
	"microsoft azure",
	"sql server",
	"github actions",
	"gitlab ci",
	"apache kafka",
	"apache spark",
	"tailwind css",
	"restful api",
	"rest api",
	"ci/cd",
	"unit testing",
	"asp.net core",
	"power bi",
}

// singleWordTech is the set of known single-token technology names, keyed by token.
var singleWordTech = map[string]bool{
	"python": true, "java": true, "javascript": true, "typescript": true, "golang": true,
	"rust": true, "ruby": true, "php": true, "c++": true, "c#": true, "scala": true,
	"kotlin": true, "swift": true, "elixir": true, "haskell": true, "perl": true,
	"django": true, "flask": true, "fastapi": true, "react": true, "reactjs": true,
	"angular": true, "vue": true, "vue.js": true, "svelte": true, "node.js": true,
	"nodejs": true, "next.js": true, "rails": true,
	"laravel": true, "postgresql": true, "postgres": true, "mysql": true,
	"mongodb": true, "redis": true, "elasticsearch": true, "kafka": true, "rabbitmq": true,
	"docker": true, "kubernetes": true, "k8s": true, "terraform": true, "ansible": true,
	"aws": true, "azure": true, "gcp": true, "linux": true, "git": true, "graphql": true,
	"grpc": true, "html": true, "css": true, "sass": true, "tailwind": true,
	"jenkins": true, "celery": true, "pandas": true, "numpy": true, "pytorch": true,
	"tensorflow": true, "spark": true, "airflow": true, "snowflake": true, "sql": true,
	"nosql": true, "microservices": true, "lamp": true, "jquery": true, "webpack": true,
	"jest": true, "pytest": true, "selenium": true, "cypress": true, "hadoop": true,
	"bigquery": true, "dynamodb": true, "sqlite": true, "oracle": true, "nginx": true,
	"prometheus": true, "grafana": true, "datadog": true, "serverless": true, "redux": true,
	"dbt": true, "looker": true, "tableau": true, "figma": true, "openapi": true,
	"websockets": true, "oauth": true, "llm": true, "llms": true, "scikit-learn": true,
}

// exampleListPattern captures "(e.g., X, Y)" style enumerations.
var exampleListPattern = regexp.MustCompile(`(?i)\((?:e\.g\.?|eg\.?|such as|including|like)[,:]?\s*([^)]*)\)`)

var exampleSplitPattern = regexp.MustCompile(`(?i)\s*(?:,|/|;|\bor\b|\band\b)\s*`)

// ExtractTechTerms returns the canonical technology terms mentioned in text,
// in first-seen order.
func ExtractTechTerms(text string) []string {
	var terms []string

	for _, m := range exampleListPattern.FindAllStringSubmatch(text, -1) {
		for _, part := range exampleSplitPattern.Split(m[1], -1) {
			part = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "etc."))
			part = strings.TrimSuffix(part, "etc")
			if part == "" || len(part) > 40 {
				continue
			}
			terms = append(terms, CanonicalTerm(part))
		}
	}

	for _, term := range multiWordTech {
		if ContainsWord(text, term) {
			terms = append(terms, CanonicalTerm(term))
		}
	}

	for _, w := range Words(text) {
		if singleWordTech[w] {
			terms = append(terms, CanonicalTerm(w))
		}
	}

	return Dedupe(terms)
}

// genericWords never cause a multi-word match on their own.
var genericWords = map[string]bool{
	"cloud": true, "platform": true, "platforms": true, "security": true, "data": true,
	"management": true, "development": true, "engineering": true, "system": true,
	"systems": true, "service": true, "services": true, "software": true, "web": true,
	"application": true, "applications": true, "design": true, "tools": true,
	"framework": true, "frameworks": true, "infrastructure": true, "network": true,
	"networking": true, "testing": true, "analytics": true, "computing": true,
	"learning": true, "processing": true, "language": true, "languages": true,
	"models": true, "api": true, "apis": true, "database": true, "databases": true,
	"native": true, "server": true, "core": true, "and": true, "of": true, "the": true,
	"on": true, "for": true, "js": true, "css": true, "sql": true, "db": true, "ui": true,
	"ci": true, "cd": true, "devops": true, "architecture": true, "automation": true,
	"programming": true, "experience": true, "modern": true, "distributed": true,
}

var techSuffixes = []string{"css", "sql", "api", "js", "db", "ui"}

var fileExtensions = []string{".js", ".ts", ".py"}

// techCore reduces a canonical term to its distinguishing core: file extensions
// and common tech suffixes are removed along with separators.
func techCore(term string) string {
	for _, ext := range fileExtensions {
		if strings.HasSuffix(term, ext) && len(term) > len(ext) {
			term = strings.TrimSuffix(term, ext)
			break
		}
	}

	var b strings.Builder
	for _, r := range term {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' {
			b.WriteRune(r)
		}
	}
	core := b.String()

	for _, suffix := range techSuffixes {
		if strings.HasSuffix(core, suffix) && len(core)-len(suffix) >= 3 {
			return strings.TrimSuffix(core, suffix)
		}
	}
	return core
}

// TechTermsMatch reports whether two technology names refer to the same thing.
// It is symmetric and deterministic:
//
//	TechTermsMatch("Tailwind CSS", "TailwindCSS") == true
//	TechTermsMatch("Java", "JavaScript")          == false
//	TechTermsMatch("PostgreSQL", "Postgres")      == true
func TechTermsMatch(a, b string) bool {
	ca, cb := CanonicalTerm(a), CanonicalTerm(b)
	if ca == "" || cb == "" {
		return false
	}
	if ca == cb {
		return true
	}

	ka, kb := techCore(ca), techCore(cb)
	if ka != "" && ka == kb {
		return true
	}
	if corePrefixMatch(ka, kb) {
		return true
	}

	if strings.Contains(ca, " ") || strings.Contains(cb, " ") {
		return shareDistinctiveWord(ca, cb)
	}
	return false
}

// corePrefixMatch allows one core to extend the other by at most two characters.
func corePrefixMatch(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) < 3 {
		return false
	}
	return strings.HasPrefix(b, a) && len(b)-len(a) <= 2
}

func shareDistinctiveWord(a, b string) bool {
	words := make(map[string]bool)
	for _, w := range Words(a) {
		if len(w) >= 2 && !genericWords[w] {
			words[w] = true
		}
	}
	for _, w := range Words(b) {
		if words[w] {
			return true
		}
	}
	return false
}
