package answer

import "fmt"

const systemPrompt = `You are a helpful assistant that answers questions based on provided document context.

Instructions:
1. Answer the question using ONLY the information provided in the context
2. If the context doesn't contain enough information, say so clearly
3. Be concise and accurate
4. When possible, mention which document(s) you're referencing
5. Do not make up information not present in the context`

func userPrompt(query, contextText string) string {
	return fmt.Sprintf(`Context from documents:
%s

Question: %s

Please provide a clear answer based on the context above.`, contextText, query)
}
