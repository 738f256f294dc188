package extract

// Aliases maps retired party codes to their current code. The zero value
// resolves nothing. An Aliases is immutable once built.
type Aliases struct {
	m map[string]string
}

// NewAliases copies pairs (retired → current) into an Aliases.
func NewAliases(pairs map[string]string) Aliases {
	m := make(map[string]string, len(pairs))
	for k, v := range pairs {
		m[k] = v
	}
	return Aliases{m: m}
}

// DefaultAliases covers the code changes seen across the supported cycles:
// Folkpartiet (FP) became Liberalerna (L) in 2015.
var DefaultAliases = NewAliases(map[string]string{
	"FP": "L",
})

// Resolve returns the current code for code.
func (a Aliases) Resolve(code string) string {
	if cur, ok := a.m[code]; ok {
		return cur
	}
	return code
}
