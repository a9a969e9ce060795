package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse 将筛选表达式解析回 Criteria。
// 未识别的字段名会被跳过而不是报错，语法错误则返回 error。
func Parse(expr string) (Criteria, error) {
	var c Criteria
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return c, nil
	}

	segments, err := splitTopLevel(expr)
	if err != nil {
		return c, err
	}

	for _, seg := range segments {
		if err := parseSegment(&c, seg); err != nil {
			return Criteria{}, err
		}
	}
	return c, nil
}

// splitTopLevel 在括号深度为 0 的位置按 " and " 切分。
func splitTopLevel(expr string) ([]string, error) {
	var segments []string
	depth := 0
	start := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", expr)
			}
		case ' ':
			if depth == 0 && strings.HasPrefix(expr[i:], " and ") {
				segments = append(segments, strings.TrimSpace(expr[start:i]))
				i += len(" and ") - 1
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", expr)
	}
	segments = append(segments, strings.TrimSpace(expr[start:]))
	return segments, nil
}

func parseSegment(c *Criteria, seg string) error {
	if seg == "" {
		return fmt.Errorf("empty filter segment")
	}

	if strings.HasPrefix(seg, "(") {
		return parseRange(c, seg)
	}

	if idx := strings.Index(seg, " in "); idx > 0 {
		field := strings.TrimSpace(seg[:idx])
		rest := strings.TrimSpace(seg[idx+len(" in "):])
		if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
			return fmt.Errorf("malformed in-clause %q", seg)
		}
		values := splitCSV(rest[1 : len(rest)-1])
		if len(values) == 0 {
			return fmt.Errorf("empty value list in %q", seg)
		}
		assignField(c, field, values)
		return nil
	}

	if idx := strings.Index(seg, "="); idx > 0 {
		field := strings.TrimSpace(seg[:idx])
		value := strings.TrimSpace(seg[idx+1:])
		if !isIdent(field) {
			return fmt.Errorf("malformed equals clause %q", seg)
		}
		if value == "" {
			return fmt.Errorf("missing value in %q", seg)
		}
		assignField(c, field, []string{value})
		return nil
	}

	return fmt.Errorf("unrecognized filter segment %q", seg)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_'
		if !ok {
			return false
		}
	}
	return true
}

// parseRange 解析形如 (salary>=a and salary<=b) 的闭区间子表达式。
func parseRange(c *Criteria, seg string) error {
	if !strings.HasSuffix(seg, ")") {
		return fmt.Errorf("malformed range clause %q", seg)
	}
	inner := seg[1 : len(seg)-1]
	parts := strings.SplitN(inner, " and ", 2)
	if len(parts) != 2 {
		return fmt.Errorf("malformed range clause %q", seg)
	}

	loField, lo, err := parseBound(parts[0], ">=")
	if err != nil {
		return err
	}
	hiField, hi, err := parseBound(parts[1], "<=")
	if err != nil {
		return err
	}
	if loField != hiField {
		return fmt.Errorf("range bounds refer to different fields in %q", seg)
	}

	if loField == "salary" {
		c.SalaryMin = lo
		c.SalaryMax = hi
		c.HasSalary = true
	}
	return nil
}

func parseBound(s, op string) (string, int64, error) {
	idx := strings.Index(s, op)
	if idx <= 0 {
		return "", 0, fmt.Errorf("malformed bound %q", s)
	}
	field := strings.TrimSpace(s[:idx])
	n, err := strconv.ParseInt(strings.TrimSpace(s[idx+len(op):]), 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("parse bound %q: %w", s, err)
	}
	return field, n, nil
}

func assignField(c *Criteria, field string, values []string) {
	switch field {
	case "location":
		c.Locations = append(c.Locations, values...)
	case "skills":
		c.Skills = append(c.Skills, values...)
	case "level":
		c.Levels = append(c.Levels, values...)
	case "workType":
		c.WorkTypes = append(c.WorkTypes, values...)
	case "specialization":
		c.Specializations = append(c.Specializations, values...)
	default:
		// 未识别字段容忍跳过，保证旧链接不会导致整页报错
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
