package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("STRING_INTERN_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "STRING_INTERN_CALL",
			name:        "String.intern() call",
			description: "Flags calls to String.intern(), which can grow the JVM's string pool unboundedly when applied to high-cardinality or attacker-controlled strings.",
			message:     "String.intern() adds to the JVM's shared string pool; avoid interning high-cardinality or externally-supplied strings.",
			predicate:   exactCall("java/lang/String", "intern", "()Ljava/lang/String;"),
		}
	})
}
