package mcp

import "fmt"

// parseIntArg extracts an integer argument from an MCP arguments map.
// MCP sends numbers as float64, so this handles the conversion.
// Returns defaultVal if the argument is missing or invalid.
func parseIntArg(argsMap map[string]interface{}, key string, defaultVal int) int {
	val, ok := argsMap[key]
	if !ok {
		return defaultVal
	}

	// MCP sends numbers as float64
	if f, ok := val.(float64); ok {
		return int(f)
	}

	return defaultVal
}

// parseBoolArg extracts a boolean argument from an MCP arguments map.
// Returns defaultVal if the argument is missing or invalid.
func parseBoolArg(argsMap map[string]interface{}, key string, defaultVal bool) bool {
	val, ok := argsMap[key]
	if !ok {
		return defaultVal
	}

	if b, ok := val.(bool); ok {
		return b
	}

	return defaultVal
}

// parseArrayArg extracts a string array argument from an MCP arguments map.
// Non-string and empty elements are dropped. A required array must hold at
// least one string.
func parseArrayArg(argsMap map[string]interface{}, key string, required bool) ([]string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return nil, fmt.Errorf("%s parameter is required", key)
		}
		return nil, nil
	}

	arr, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}

	result := make([]string, 0, len(arr))
	for _, item := range arr {
		if str, ok := item.(string); ok && str != "" {
			result = append(result, str)
		}
	}
	if required && len(result) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", key)
	}
	return result, nil
}

// parseClampedInt extracts an integer argument and clamps it to [min, max].
// Returns defaultVal if the argument is missing or invalid.
func parseClampedInt(argsMap map[string]interface{}, key string, defaultVal, min, max int) int {
	val := parseIntArg(argsMap, key, defaultVal)
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
