// Package prompt builds the generation prompts and decodes the structured
// follow-up response.
package prompt

import (
	"fmt"
	"strings"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// Disclaimer is the closing line every analysis must end with.
const Disclaimer = "⚠️ DISCLAIMER: This analysis is for educational purposes only and should not replace professional medical consultation. Please consult a qualified healthcare provider for proper diagnosis and treatment."

// SystemInstruction is the persona configured once on the generation client.
var SystemInstruction = `You are a Medical Diagnostic Expert AI with advanced training in clinical diagnosis, radiology, pathology, and pharmacology.

Your Core Responsibilities:
1. MEDICAL ANALYSIS: Provide accurate, evidence-based medical analysis of symptoms, lab reports, and medical images
2. STEP-BY-STEP REASONING: Always explain your diagnostic reasoning process clearly
3. REFERENCE RANGES: When analyzing lab reports, carefully compare each value against normal reference ranges and explain any deviations
4. IMAGING ANALYSIS: For X-rays, MRIs, CT scans, and other medical images, systematically identify:
   - Normal anatomical structures
   - Any structural abnormalities, lesions, or pathological findings
   - Density changes, alignment issues, or asymmetries
   - Recommendations for further imaging if needed
5. MEDICATION ANALYSIS: Cross-reference current medications with reported symptoms to identify potential side effects or drug interactions
6. DIFFERENTIAL DIAGNOSIS: Always provide 2-3 possible diagnoses ranked by likelihood with confidence levels
7. SCIENTIFIC BASIS: Reference relevant medical literature, studies, or clinical guidelines when available
8. SAFETY FIRST: Always indicate when immediate medical attention is required

Your Analysis Must Include:
- Clear, structured sections for easy reading
- Evidence-based reasoning for each conclusion
- Specific attention to abnormal findings with clinical significance
- Appropriate medical terminology adjusted to the user's mode (patient/doctor)
- Red flags that require urgent medical care
- Recommended next steps for diagnosis or treatment

Important Guidelines:
- Be factual and precise - do not speculate beyond available evidence
- Use proper medical terminology while maintaining clarity
- Always compare lab values against standard reference ranges
- Identify and explain any critical or concerning findings
- Maintain professional medical standards in all communications
- End every response with: "` + Disclaimer + `"

Remember: Your goal is to provide the most accurate, helpful, and professionally sound medical analysis possible while emphasizing the importance of professional medical care.`

var languageInstruction = map[domain.Language]string{
	domain.LanguageEnglish:  "Respond in English",
	domain.LanguageHindi:    "Respond in Hindi",
	domain.LanguageHinglish: "Respond in Hinglish (mix of Hindi and English)",
}

var modeInstruction = map[domain.Mode]string{
	domain.ModePatient: "Use simple, easy-to-understand language suitable for patients. Avoid excessive medical jargon.",
	domain.ModeDoctor:  "Use technical medical terminology, include ICD-10 codes where applicable, and provide detailed clinical reasoning.",
}

// FollowUp asks for exactly four clarifying questions as JSON.
// User text is interpolated verbatim.
func FollowUp(symptoms, languageName string) string {
	return fmt.Sprintf(`Based on these symptoms: %s

As a Medical Diagnostic Expert, generate %d clinically relevant follow-up questions in %s that would help narrow down the differential diagnosis. These questions should gather information about:
- Onset, duration, and progression
- Severity and characteristics
- Aggravating or relieving factors
- Associated symptoms

For each question, provide 3-4 realistic answer options that patients would commonly report.

Format as JSON:
{
    "questions": [
        {
            "question": "question text",
            "options": ["option1", "option2", "option3", "option4"]
        }
    ]
}

Return ONLY the JSON, no other text.`, symptoms, domain.MaxFollowUps, languageName)
}

// Diagnosis builds the final analysis request. Unknown modes and languages
// fall back to patient and English.
func Diagnosis(symptoms, followUpText, medications string, mode domain.Mode, language domain.Language) string {
	lang, ok := languageInstruction[language]
	if !ok {
		lang = languageInstruction[domain.LanguageEnglish]
	}
	register, ok := modeInstruction[mode]
	if !ok {
		register = modeInstruction[domain.ModePatient]
	}
	if strings.TrimSpace(medications) == "" {
		medications = "None reported"
	}

	return fmt.Sprintf(`MEDICAL ANALYSIS REQUEST

LANGUAGE: %s
COMMUNICATION MODE: %s

PRIMARY SYMPTOMS AND CLINICAL PRESENTATION:
%s

FOLLOW-UP INFORMATION GATHERED:
%s

CURRENT MEDICATIONS:
%s

ANALYSIS REQUIREMENTS:
Please provide a comprehensive medical analysis following this structure:

1. DIFFERENTIAL DIAGNOSIS
   - List 2-3 possible diagnoses ranked by likelihood
   - Provide confidence level for each (High/Medium/Low)
   - Include relevant ICD-10 codes (if in Doctor Mode)

2. DETAILED CLINICAL REASONING
   - Explain the diagnostic reasoning step-by-step
   - Highlight key symptoms supporting each diagnosis
   - Note any contradicting or atypical presentations

3. MEDICATION ANALYSIS (if applicable)
   - Assess if any current medications could cause reported symptoms
   - Identify potential drug interactions or side effects
   - Note contraindications if any

4. LABORATORY/IMAGING FINDINGS ANALYSIS
   - If lab values provided, compare each against normal reference ranges
   - Explain clinical significance of any abnormal values
   - If medical images provided, systematically analyze for structural abnormalities

5. SCIENTIFIC BASIS AND EVIDENCE
   - Reference relevant medical literature or clinical guidelines
   - Cite studies or evidence supporting the diagnosis
   - Include PubMed references when available

6. RECOMMENDED NEXT STEPS
   - Suggest further diagnostic tests if needed
   - Provide treatment considerations
   - Lifestyle or management recommendations

7. RED FLAGS AND URGENT CARE INDICATORS
   - Identify symptoms requiring immediate medical attention
   - Note any critical or life-threatening possibilities
   - Specify when to seek emergency care

Remember to maintain professionalism and end with the standard disclaimer:
%s`, lang, register, symptoms, followUpText, medications, Disclaimer)
}

// FormatAnswers serializes answered questions as Q/A pairs in answer order.
func FormatAnswers(answers []domain.FollowUpAnswer) string {
	if len(answers) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		lines = append(lines, fmt.Sprintf("Q: %s\nA: %s", a.Question, a.Answer))
	}
	return strings.Join(lines, "\n")
}
