package catalog

import "github.com/shopassist/rag/internal/core/domain"

// KnowledgeBase holds the FAQ snapshot in memory.
type KnowledgeBase struct {
	entries []domain.FAQEntry
}

func NewKnowledgeBase(entries []domain.FAQEntry) *KnowledgeBase {
	copied := make([]domain.FAQEntry, len(entries))
	copy(copied, entries)
	return &KnowledgeBase{entries: copied}
}

// All returns every entry in load order.
func (b *KnowledgeBase) All() []domain.FAQEntry {
	out := make([]domain.FAQEntry, len(b.entries))
	copy(out, b.entries)
	return out
}
