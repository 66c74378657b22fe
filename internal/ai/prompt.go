package ai

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a senior pharmaceutical regulatory consultant. Reply with a strict JSON object and emit nothing outside it."

func buildPrompt(q Query) string {
	builder := &strings.Builder{}
	fmt.Fprintf(builder, "The user is verifying a medicine named: %q", strings.TrimSpace(q.MedicineName))
	if m := strings.TrimSpace(q.Manufacturer); m != "" {
		fmt.Fprintf(builder, ", Manufacturer: %q", m)
	}
	builder.WriteString(".\n\n")
	builder.WriteString("Identify the medicine (brand and generic), assess its legitimacy and risk from pharmaceutical knowledge, and provide structured details or risk flags.\n\n")
	builder.WriteString("Risk assessment rules:\n")
	builder.WriteString("- risk_level is \"LOW\" for any real, valid medicine, including prescription and Schedule H drugs.\n")
	builder.WriteString("- risk_level is \"HIGH\" only if the name is fake, imaginary or unknown to science.\n")
	builder.WriteString("- \"Amoxicillin\" -> found: true, risk_level: \"LOW\". \"Dolo 650\" -> found: true, risk_level: \"LOW\".\n")
	builder.WriteString("- \"FakeCureZero\" -> found: false, risk_level: \"HIGH\". \"RandomText123\" -> found: false, risk_level: \"HIGH\".\n\n")
	builder.WriteString("Output JSON structure:\n")
	builder.WriteString(`{
  "found": boolean,
  "risk_level": "LOW" | "HIGH",
  "reason": "Explanation of risk or identification",
  "brand_name": "Standardized Brand Name",
  "generic_name": "Generic Name / Salt",
  "composition": ["Active Ingredient 1", "Active Ingredient 2"],
  "dosage_form": "Tablet | Syrup | Injection | etc",
  "uses": ["Use Case 1", "Use Case 2"],
  "manufacturer": "Likely Manufacturer",
  "drug_class": "Therapeutic Class",
  "approximate_price": "ESTIMATE INR X-Y per strip (Indicative only)"
}`)
	builder.WriteString("\n")
	return builder.String()
}
