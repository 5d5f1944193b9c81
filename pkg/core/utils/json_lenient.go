package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the common defects in model-produced or hand-edited JSON:
// single quotes, unquoted keys, trailing commas, unclosed brackets, and
// surrounding code fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON converts Hjson (comments, unquoted keys, optional commas) to
// standard JSON.
func ParseHJSON(data string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(data), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(out), nil
}

// LenientUnmarshal decodes data into target, trying strict JSON first, then
// repair, then Hjson. Prompt template files are hand written and routinely
// carry comments or trailing commas; model responses carry code fences.
func LenientUnmarshal(data []byte, target interface{}) error {
	input := string(data)

	if err := json.Unmarshal(data, target); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), target); err == nil {
			return nil
		}
	}

	if converted, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(converted), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("LENIENT_PARSE_FAILED: input is not JSON, repairable JSON, or Hjson")
}
