package notice

import (
	"html"
	"sort"
	"strings"
)

// Render returns the notice as an HTML fragment.
//
// A notice with exactly one message and no heading renders through the
// single_message template only. Anything else renders the heading line
// (empty without a heading) followed by the message list. The body is framed
// by the wrapper element and the before/after markup.
//
// attrs become attributes of the wrapper element. The class attribute falls
// back to wrapper_class when attrs has none. Attributes are written as
// ` name="value"` with class first and the rest sorted by name, followed by
// ` >`: one class attribute yields `<div class="alert" >`. Attribute values
// are HTML-escaped; messages and templates are emitted as-is.
func (n *Notice) Render(attrs map[string]string) string {
	var b strings.Builder
	b.WriteString(n.openHTML(attrs))
	b.WriteString(n.settings.BeforeMessage)
	b.WriteString(n.messagesHTML())
	b.WriteString(n.settings.AfterMessage)
	b.WriteString(n.closeHTML())
	return b.String()
}

func (n *Notice) openHTML(attrs map[string]string) string {
	class, ok := attrs["class"]
	if !ok {
		class = n.settings.WrapperClass
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if name != "class" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.settings.Wrapper)
	writeAttr(&b, "class", class)
	for _, name := range names {
		writeAttr(&b, name, attrs[name])
	}
	b.WriteString(" >")
	return b.String()
}

func (n *Notice) closeHTML() string {
	return "</" + n.settings.Wrapper + ">"
}

func (n *Notice) messagesHTML() string {
	bag := n.messages
	if bag.Count() < 2 && bag.Any() && !bag.HasHeading() {
		return bag.First(n.settings.SingleMessage)
	}
	return n.Heading() + n.messageListHTML()
}

func (n *Notice) messageListHTML() string {
	if n.messages.IsEmpty() {
		return ""
	}

	var b strings.Builder
	tag := n.settings.MessageListWrapper
	if tag != "" {
		b.WriteString("<" + tag + ` class="` + html.EscapeString(n.settings.MessageListWrapperClass) + `">`)
	}
	for _, item := range n.messages.All(n.settings.MessageList) {
		b.WriteString(item)
	}
	if tag != "" {
		b.WriteString("</" + tag + ">")
	}
	return b.String()
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}
