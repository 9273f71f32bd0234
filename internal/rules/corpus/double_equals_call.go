package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("DOUBLE_EQUALS_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "DOUBLE_EQUALS_CALL",
			name:        "Double.equals() call",
			description: "Flags calls to Double.equals(), which uses bitwise comparison and disagrees with ==/compareTo on NaN and -0.0.",
			message:     "Avoid Double.equals(): its bitwise comparison treats NaN as equal to itself and -0.0 as unequal to 0.0.",
			predicate:   exactCall("java/lang/Double", "equals", "(Ljava/lang/Object;)Z"),
		}
	})
}
