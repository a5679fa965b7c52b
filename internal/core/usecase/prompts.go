package usecase

import (
	"fmt"
	"strings"

	"github.com/shopassist/rag/internal/core/domain"
)

func buildFAQFullPrompt(query, faqLayout string) string {
	return fmt.Sprintf(`You will be provided with an FAQ for a clothing store.
Answer the instruction based on it. You might use more than one question and answer to make your answer. Only answer the question and do not mention that you have access to a FAQ.
<FAQ_ITEMS>
PROVIDED FAQ: %s
</FAQ_ITEMS>
Question: %s
`, faqLayout, query)
}

func buildFAQSimplifiedPrompt(query, faqLayout string) string {
	return fmt.Sprintf(`You will be provided with a query for a clothing store regarding FAQ. It will be provided relevant FAQ from the clothing store. Answer the query based on the relevant FAQ provided. They are ordered in increasing relevance, so the last is the most relevant FAQ and the first is the least relevant. Answer the instruction based on them. You might use more than one question and answer to make your answer. Only answer the question and do not mention that you have access to a FAQ.
<FAQ>
RELEVANT FAQ ITEMS:
%s
</FAQ>
Query: %s`, faqLayout, query)
}

func buildProductPrompt(query, productsLayout string) string {
	return fmt.Sprintf(`You are a helpful fashion assistant. You will be provided with a list of products from our catalog.
Based on these products, answer the user's query. Provide specific product recommendations with their IDs and names.

<PRODUCTS>
%s
</PRODUCTS>

User Query: %s

Provide helpful recommendations based on the available products above.`, productsLayout, query)
}

func buildNoRAGPrompt(query string) string {
	return fmt.Sprintf(`Answer the following question based on your general knowledge. Do not make up specific company policies or information.

Question: %s`, query)
}

func buildUndefinedPrompt(query string) string {
	return fmt.Sprintf("Answer based on your general knowledge. Query: %s", query)
}

func buildRephrasePrompt(query string) string {
	return fmt.Sprintf("Error processing query. Please try rephrasing. Query: %s", query)
}

func layoutFAQEntries(entries []domain.FAQEntry) string {
	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "Question: %s Answer: %s Type: %s\n", entry.Question, entry.Answer, entry.Category)
	}
	return b.String()
}

func layoutFAQResults(results []domain.ScoredResult) string {
	var b strings.Builder
	for _, result := range results {
		fmt.Fprintf(&b, "Question: %s Answer: %s Type: %s\n",
			result.StringProperty("question"),
			result.StringProperty("answer"),
			result.StringProperty("type"),
		)
	}
	return b.String()
}

func layoutProducts(results []domain.ScoredResult) string {
	var b strings.Builder
	for i, result := range results {
		fmt.Fprintf(&b, "%d. Product ID: %s. Product name: %s. Product Color: %s. Product Season: %s. Product Year: %s.\n",
			i+1,
			result.StringProperty("product_id"),
			result.StringProperty("productDisplayName"),
			result.StringProperty(domain.FieldBaseColour),
			result.StringProperty(domain.FieldSeason),
			result.StringProperty("year"),
		)
	}
	return b.String()
}
