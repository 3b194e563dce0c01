package post

import (
	"encoding/json"
	"fmt"
)

// MarshalContent serializes draft content into the form stored in
// scheduled_posts.content. The shape is a single tagged object; one
// field never carries more than one semantic shape.
func MarshalContent(content *Content) (string, error) {
	if content == nil {
		return "", fmt.Errorf("cannot marshal nil content")
	}
	data, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("failed to marshal content: %w", err)
	}
	return string(data), nil
}

// UnmarshalContent deserializes stored content back into the draft shape.
func UnmarshalContent(data string) (*Content, error) {
	var content Content
	if err := json.Unmarshal([]byte(data), &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content: %w", err)
	}
	if content.Type == "" {
		return nil, fmt.Errorf("stored content has no type tag")
	}
	return &content, nil
}

// MarshalButtons serializes a button list into the form stored in
// scheduled_posts.buttons. Alert buttons are expected to carry resolved
// alert ids at this point (Finalize runs before persistence).
func MarshalButtons(buttons []Button) (string, error) {
	if buttons == nil {
		buttons = []Button{}
	}
	data, err := json.Marshal(buttons)
	if err != nil {
		return "", fmt.Errorf("failed to marshal buttons: %w", err)
	}
	return string(data), nil
}

// UnmarshalButtons deserializes a stored button list.
func UnmarshalButtons(data string) ([]Button, error) {
	var buttons []Button
	if err := json.Unmarshal([]byte(data), &buttons); err != nil {
		return nil, fmt.Errorf("failed to unmarshal buttons: %w", err)
	}
	return buttons, nil
}
