package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("BIGDECIMAL_EQUALS_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "BIGDECIMAL_EQUALS_CALL",
			name:        "BigDecimal.equals() call",
			description: "Flags calls to BigDecimal.equals(), which compares scale as well as value.",
			message:     "Avoid BigDecimal.equals(): it considers values with different scale unequal. Use compareTo() == 0 instead.",
			predicate:   exactCall("java/math/BigDecimal", "equals", "(Ljava/lang/Object;)Z"),
		}
	})
}
