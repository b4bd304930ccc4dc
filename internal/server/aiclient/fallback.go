package aiclient

import (
	"fmt"
	"unicode/utf8"
)

// Фиксированное время обработки для заглушек, мс
const (
	mockTranslateTime  = 1500
	mockSummarizeTime  = 2000
	mockTranscribeTime = 3000
	mockSynthesizeTime = 2500
)

// MockTranscript текст заглушки распознавания речи
const MockTranscript = "[MOCK] This is a mock transcription of the audio input."

func mockTranslation(text, fromLang, toLang string) TranslationResult {
	return TranslationResult{
		TranslatedText: fmt.Sprintf("[MOCK] Translated from %s to %s: %s", fromLang, toLang, text),
		Confidence:     0.85,
		ProcessingTime: mockTranslateTime,
		ModelVersion:   MockModelVersion,
	}
}

func mockSummary(text, length string) SummaryResult {
	description, ok := lengthDescriptions[length]
	if !ok {
		description = lengthDescriptions[LengthMedium]
	}

	summary := fmt.Sprintf("[MOCK] This is a %s summary of the provided text. "+
		"The content has been processed and condensed while preserving key information and main ideas.", description)

	originalLength := utf8.RuneCountInString(text)
	summaryLength := utf8.RuneCountInString(summary)

	var ratio float64
	if originalLength > 0 {
		ratio = float64(summaryLength) / float64(originalLength)
	}

	return SummaryResult{
		Summary:          summary,
		OriginalLength:   originalLength,
		SummaryLength:    summaryLength,
		CompressionRatio: ratio,
		ProcessingTime:   mockSummarizeTime,
		ModelVersion:     MockModelVersion,
	}
}

func mockTranscription(language string) TranscriptionResult {
	return TranscriptionResult{
		Transcript:     MockTranscript,
		Confidence:     0.88,
		Language:       language,
		ProcessingTime: mockTranscribeTime,
		ModelVersion:   MockModelVersion,
	}
}

func mockSpeech() SpeechResult {
	return SpeechResult{
		ProcessingTime: mockSynthesizeTime,
		ModelVersion:   MockModelVersion,
	}
}
