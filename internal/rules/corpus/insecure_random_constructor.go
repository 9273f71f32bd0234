package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("INSECURE_RANDOM_CONSTRUCTOR", func() rules.Rule {
		return callSiteRule{
			id:          "INSECURE_RANDOM_CONSTRUCTOR",
			name:        "java.util.Random construction",
			description: "Flags construction of java.util.Random, whose linear-congruential algorithm is predictable and unsuitable for security-sensitive randomness.",
			message:     "java.util.Random is not cryptographically secure; use java.security.SecureRandom for security-sensitive values.",
			predicate:   callByName("java/util/Random", "<init>"),
		}
	})
}
