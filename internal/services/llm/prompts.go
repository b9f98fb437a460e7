package llm

import "fmt"

const summarySystemPrompt = "You are a helpful assistant that converts transcripts into well-structured markdown study notes."

const summaryPromptTemplate = `Convert the following transcript into well-structured markdown study notes.

Transcript:
%s

Please format the output as:
- Clear headings and subheadings
- Key points as bullet lists
- Important concepts highlighted
- Summary section at the end

Make the notes concise but comprehensive, focusing on the main topics and key takeaways.`

const titleSystemPrompt = "Generate a concise, descriptive title (3-8 words) for study notes based on the transcript. Return only the title, no quotes or extra text."

// TitleExcerptRunes bounds how much transcript is sent for title generation.
const TitleExcerptRunes = 500

const titleMaxTokens = 20

func summaryPrompt(transcript string) string {
	return fmt.Sprintf(summaryPromptTemplate, transcript)
}

func titlePrompt(excerpt string) string {
	return fmt.Sprintf("Transcript: %s\n\nGenerate a concise title for these study notes:", excerpt)
}
