package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/college-hub/model"
)

// FormField returns a submitted form value and whether the field was
// present at all, for both urlencoded and multipart bodies.
func FormField(c *fiber.Ctx, key string) (string, bool) {
	if args := c.Request().PostArgs(); args.Has(key) {
		return string(args.Peek(key)), true
	}
	if form, err := c.MultipartForm(); err == nil {
		if v, ok := form.Value[key]; ok && len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

// OptionalInt reads an integer form field. An absent field is left
// unset, a blank one becomes NULL.
func OptionalInt(c *fiber.Ctx, key string) (model.Optional[int], error) {
	raw, ok := FormField(c, key)
	if !ok {
		return model.Optional[int]{}, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Null[int](), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return model.Optional[int]{}, err
	}
	return model.Some(n), nil
}
