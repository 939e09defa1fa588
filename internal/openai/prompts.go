package openai

const (
	sysPrefix = "You are interviewing for a "
	sysSuffix = ` position.
You will receive an audio transcription of the question. It may not be complete. You need to understand the question and write an answer to it. Otherwise, convey that you didn't understand and tell user to try again.
`

	shortInstruction = "Concisely respond, limiting your answer to around 100 words. Provide Space/Time complexity for algorithms."
	longInstruction  = "Limit long responses for code snippets. If asked about an algorithm, just provide the code, avoid extra text, avoid long one-liners. Default to Python if language is not mentioned. Provide example usage."

	visionPrompt = "You are analyzing technical interview content for a %s. " +
		"The user will provide an image containing either:\n" +
		"- Algorithm challenges\n- Whiteboard designs\n- System diagrams\n- Code snippets\n\n"

	visionUserText = "Analyze this technical interview content."
)

// systemPrompt builds the chat system instruction for a position and
// answer length.
func systemPrompt(position string, short bool) string {
	p := sysPrefix + position + sysSuffix
	if short {
		return p + shortInstruction
	}
	return p + longInstruction
}
