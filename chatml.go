package reflexion

import "strings"

// ChatMLTemplate renders messages in ChatML framing with a trailing
// generation prompt, matching qwen-family instruction models. It is the
// default template; backends with server-side chat templating can
// substitute a pass-through implementation.
type ChatMLTemplate struct{}

// Render formats each message as an <|im_start|>...<|im_end|> block and
// opens an assistant turn for the model to complete.
func (ChatMLTemplate) Render(messages []Message) (string, error) {
	var b strings.Builder
	for _, m := range messages {
		role := m.Role
		if role == "" {
			role = "user"
		}
		b.WriteString("<|im_start|>")
		b.WriteString(role)
		b.WriteString("\n")
		b.WriteString(m.Content)
		b.WriteString("<|im_end|>\n")
	}
	b.WriteString("<|im_start|>assistant\n")
	return b.String(), nil
}
