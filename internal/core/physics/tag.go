package physics

import (
	"fmt"
	"strings"
)

// Tag classifies a body for collision policies and game rules.
type Tag uint8

const (
	TagNone Tag = iota
	TagBird
	TagPig
	TagPlatform
	TagWall
	TagObstacle
	TagCoin
	TagClock
	TagEgg
	TagSlingshot
	TagRubberBand
)

var tagNames = [...]string{
	TagNone:       "none",
	TagBird:       "bird",
	TagPig:        "pig",
	TagPlatform:   "platform",
	TagWall:       "wall",
	TagObstacle:   "obstacle",
	TagCoin:       "coin",
	TagClock:      "clock",
	TagEgg:        "egg",
	TagSlingshot:  "slingshot",
	TagRubberBand: "rubberband",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// ParseTag is the inverse of String.
func ParseTag(name string) (Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range tagNames {
		if n == name {
			return Tag(i), nil
		}
	}
	return TagNone, fmt.Errorf("unknown body tag %q", name)
}

// UnmarshalText lets tags appear by name in configuration files.
func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
