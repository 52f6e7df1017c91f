package entities

import (
	"fmt"
	"strings"
)

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockBreak
	BlockOrderedList
	BlockUnorderedList
)

// ContentBlock is one piece of a detail-page description body. Paragraphs
// carry Text, lists carry Items, a break carries nothing.
type ContentBlock struct {
	Kind  BlockKind
	Text  string
	Items []string
}

func Paragraph(text string) ContentBlock {
	return ContentBlock{Kind: BlockParagraph, Text: text}
}

func Break() ContentBlock {
	return ContentBlock{Kind: BlockBreak}
}

func OrderedList(items []string) ContentBlock {
	return ContentBlock{Kind: BlockOrderedList, Items: items}
}

func UnorderedList(items []string) ContentBlock {
	return ContentBlock{Kind: BlockUnorderedList, Items: items}
}

// RenderBlocks flattens content blocks into display text. Ordered lists
// are numbered from 1, unordered items are dashed, an empty paragraph
// becomes a blank line.
func RenderBlocks(blocks []ContentBlock) string {
	var sb strings.Builder
	for _, block := range blocks {
		switch block.Kind {
		case BlockParagraph:
			sb.WriteString(block.Text + "\n")
		case BlockBreak:
			sb.WriteString("\n\n")
		case BlockOrderedList:
			for i, item := range block.Items {
				sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
			}
			sb.WriteString("\n")
		case BlockUnorderedList:
			for _, item := range block.Items {
				sb.WriteString("- " + item + "\n")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// BuildDescription assembles the stored description text. Section order is
// fixed: conditions, location, body. Empty sections are left out.
func BuildDescription(conditions []string, location string, body []ContentBlock) string {
	var sb strings.Builder

	if len(conditions) > 0 {
		sb.WriteString("<b>Условия</b>\n")
		for _, condition := range conditions {
			sb.WriteString("- " + condition + "\n")
		}
		sb.WriteString("\n")
	}

	if location != "" {
		sb.WriteString("<b>Расположение</b>\n")
		sb.WriteString(location + "\n\n")
	}

	if len(body) > 0 {
		sb.WriteString("<b>Описание</b>\n")
		sb.WriteString(RenderBlocks(body))
	}

	return sb.String()
}
