// Package summary renders a day's tasks into client-update text.
package summary

import (
	"fmt"
	"strings"
)

// Item is the slice of a task the renderer needs. Date is the task's
// calendar date in YYYY-MM-DD form.
type Item struct {
	Title string
	Desc  string
	Date  string
}

// Render produces the client update text for the given date and items.
// It is a pure function: identical inputs yield byte-identical output.
//
// With a template, every literal {tasks} occurrence is replaced with a
// bulleted task list and every {date} with the first item's date; unknown
// placeholders are left untouched. Without a template a fixed layout is used.
// The date argument is only used for the empty-items message.
func Render(date string, items []Item, template string) string {
	if len(items) == 0 {
		return fmt.Sprintf("No tasks completed on %s", date)
	}

	if template != "" {
		lines := make([]string, len(items))
		for i, it := range items {
			desc := it.Desc
			if desc == "" {
				desc = "Completed"
			}
			lines[i] = fmt.Sprintf("- %s: %s", it.Title, desc)
		}
		taskList := strings.Join(lines, "\n")

		out := strings.ReplaceAll(template, "{tasks}", taskList)
		out = strings.ReplaceAll(out, "{date}", items[0].Date)
		return out
	}

	lines := make([]string, len(items))
	for i, it := range items {
		line := "• " + it.Title
		if it.Desc != "" {
			line += ": " + it.Desc
		}
		lines[i] = line
	}

	return fmt.Sprintf("Daily Update - %s\n\nTasks Completed:\n%s\n\nTotal tasks completed: %d",
		items[0].Date, strings.Join(lines, "\n"), len(items))
}
