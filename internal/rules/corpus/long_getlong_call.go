package corpus

import (
	"inspequte/internal/descriptor"
	"inspequte/internal/rules"
)

func init() {
	rules.Register("LONG_GETLONG_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "LONG_GETLONG_CALL",
			name:        "Long.getLong call",
			description: "Flags Long.getLong(), which reads a system property by name rather than parsing a numeric string.",
			message:     "Avoid Long.getLong(): it reads a system property, not a numeric input string. Use Long.parseLong()/valueOf() for parsing, or keep getLong() only for system property reads.",
			predicate:   signatureCallAnyParamCount("java/lang/Long", "getLong", 1, descriptor.Reference),
		}
	})
}
