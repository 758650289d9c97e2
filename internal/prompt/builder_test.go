package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

func TestFollowUpPrompt(t *testing.T) {
	p := FollowUp("fever, cough", "Hindi")
	assert.Contains(t, p, "Based on these symptoms: fever, cough")
	assert.Contains(t, p, "generate 4 clinically relevant follow-up questions in Hindi")
	assert.Contains(t, p, `"questions"`)
	assert.Contains(t, p, "3-4 realistic answer options")
	assert.True(t, strings.HasSuffix(p, "Return ONLY the JSON, no other text."))
}

func TestDiagnosisPrompt(t *testing.T) {
	p := Diagnosis("fever", "Q: Since when?\nA: Today", "", domain.ModeDoctor, domain.LanguageHinglish)

	assert.Contains(t, p, "LANGUAGE: Respond in Hinglish (mix of Hindi and English)")
	assert.Contains(t, p, "ICD-10 codes where applicable")
	assert.Contains(t, p, "CURRENT MEDICATIONS:\nNone reported")
	assert.Contains(t, p, "FOLLOW-UP INFORMATION GATHERED:\nQ: Since when?\nA: Today")
	for _, section := range []string{
		"1. DIFFERENTIAL DIAGNOSIS",
		"2. DETAILED CLINICAL REASONING",
		"3. MEDICATION ANALYSIS",
		"4. LABORATORY/IMAGING FINDINGS ANALYSIS",
		"5. SCIENTIFIC BASIS AND EVIDENCE",
		"6. RECOMMENDED NEXT STEPS",
		"7. RED FLAGS AND URGENT CARE INDICATORS",
	} {
		assert.Contains(t, p, section)
	}
	assert.True(t, strings.HasSuffix(p, Disclaimer))
}

func TestDiagnosisPromptDefaults(t *testing.T) {
	p := Diagnosis("rash", "None", "ibuprofen", "", "")
	assert.Contains(t, p, "LANGUAGE: Respond in English")
	assert.Contains(t, p, "suitable for patients")
	assert.Contains(t, p, "CURRENT MEDICATIONS:\nibuprofen")
}

func TestSystemInstructionCarriesDisclaimer(t *testing.T) {
	assert.Contains(t, SystemInstruction, "Medical Diagnostic Expert AI")
	assert.Contains(t, SystemInstruction, Disclaimer)
}

func TestFormatAnswers(t *testing.T) {
	assert.Equal(t, "None", FormatAnswers(nil))
	got := FormatAnswers([]domain.FollowUpAnswer{
		{Question: "Onset?", Answer: "Today"},
		{Question: "Severity?", Answer: "Mild"},
	})
	assert.Equal(t, "Q: Onset?\nA: Today\nQ: Severity?\nA: Mild", got)
}

const validQuestions = `{"questions":[{"question":"Onset?","options":["Today","Yesterday","Last week"]},{"question":"Fever?","options":["Yes","No"]}]}`

func TestParseQuestions(t *testing.T) {
	qs, err := ParseQuestions(validQuestions)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "Onset?", qs[0].Question)
	assert.Equal(t, []string{"Today", "Yesterday", "Last week"}, qs[0].Options)
}

func TestParseQuestionsCodeFence(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + validQuestions + "\n```",
		"```\n" + validQuestions + "\n```",
		"  \n" + validQuestions + "\n ",
	} {
		qs, err := ParseQuestions(raw)
		require.NoError(t, err, raw)
		assert.Len(t, qs, 2)
	}
}

func TestParseQuestionsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"not json":         "Sure! Here are some questions.",
		"prose wrapped":    "Here you go: " + validQuestions,
		"trailing text":    validQuestions + " hope this helps",
		"missing key":      `{"items":[]}`,
		"null questions":   `{"questions":null}`,
		"empty questions":  `{"questions":[]}`,
		"wrong type":       `{"questions":"what?"}`,
		"blank question":   `{"questions":[{"question":" ","options":["a","b"]}]}`,
		"one option":       `{"questions":[{"question":"q","options":["a"]}]}`,
		"duplicate option": `{"questions":[{"question":"q","options":["a","a"]}]}`,
		"unknown field":    `{"questions":[{"question":"q","options":["a","b"],"hint":"x"}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuestions(raw)
			if !errors.Is(err, domain.ErrMalformedFollowUp) {
				t.Fatalf("expected ErrMalformedFollowUp, got %v", err)
			}
		})
	}
}
