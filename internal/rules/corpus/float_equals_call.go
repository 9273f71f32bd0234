package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("FLOAT_EQUALS_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "FLOAT_EQUALS_CALL",
			name:        "Float.equals() call",
			description: "Flags calls to Float.equals(), which has the same bitwise-comparison pitfalls as Double.equals().",
			message:     "Avoid Float.equals(): its bitwise comparison treats NaN as equal to itself and -0.0 as unequal to 0.0.",
			predicate:   exactCall("java/lang/Float", "equals", "(Ljava/lang/Object;)Z"),
		}
	})
}
