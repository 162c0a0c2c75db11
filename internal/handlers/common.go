package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"

	"github.com/mlsechub/modelhub/internal/types"
)

// parseCSVParam extracts a multi-valued query parameter, supporting both
// repeated keys and comma-separated values.
func parseCSVParam(c *fiber.Ctx, name string) []string {
	valueMap := make(map[string]struct{})
	var values []string

	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		if string(key) != name {
			return
		}
		// Split by comma in case the value itself is comma-separated
		for _, v := range strings.Split(string(value), ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, seen := valueMap[v]; !seen {
				valueMap[v] = struct{}{}
				values = append(values, v)
			}
		}
	})

	return values
}

// parseIDParam reads the :id path parameter. Non-numeric input is a
// validation error, never a panic.
func parseIDParam(c *fiber.Ctx) (uint64, error) {
	raw := c.Params("id")
	id, err := cast.ToUint64E(raw)
	if err != nil || id == 0 {
		return 0, types.NewValidationError("invalid id: " + raw)
	}
	return id, nil
}

// parsePageParam coerces the p query parameter to a positive page number.
// Garbage and absent values become page 1; clamping to the last page
// happens downstream.
func parsePageParam(c *fiber.Ctx) int {
	page := cast.ToInt(c.Query("p"))
	if page < 1 {
		return 1
	}
	return page
}
