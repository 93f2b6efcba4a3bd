package service

import (
	"strconv"

	"quickfeedback/internal/domain/model"
)

// VisibleQuestions evaluates a form's branching rules against a set of
// answers and reports which questions a respondent actually sees. Questions
// default to visible; rules only override that:
//
//   - show: the target is visible only while its condition holds
//   - hide: the target is hidden while its condition holds
//   - skip: while the condition holds, every question strictly between the
//     source and the target (in form order) is hidden
//
// An unanswered source question never satisfies a condition.
func VisibleQuestions(form *model.Form, answers model.Answers) map[int]bool {
	visible := make(map[int]bool, len(form.Questions))
	order := make(map[int]int, len(form.Questions))
	for i, q := range form.Questions {
		visible[q.ID] = true
		order[q.ID] = i
	}

	for _, rule := range form.Rules {
		matched := conditionHolds(rule.Condition, answers[rule.SourceQuestionID])
		switch rule.Action.Type {
		case model.ActionShow:
			if !matched {
				visible[rule.Action.TargetQuestionID] = false
			}
		case model.ActionHide:
			if matched {
				visible[rule.Action.TargetQuestionID] = false
			}
		case model.ActionSkip:
			if !matched {
				continue
			}
			from, okFrom := order[rule.SourceQuestionID]
			to, okTo := order[rule.Action.TargetQuestionID]
			if !okFrom || !okTo || to <= from {
				continue
			}
			for _, q := range form.Questions[from+1 : to] {
				visible[q.ID] = false
			}
		}
	}
	return visible
}

func conditionHolds(cond model.RuleCondition, answer interface{}) bool {
	if answer == nil {
		return false
	}

	// Numeric comparison when both sides parse as numbers; answers arrive
	// as float64 from JSON decoding.
	if num, ok := answerAsFloat(answer); ok {
		if want, err := strconv.ParseFloat(cond.Value, 64); err == nil {
			switch cond.Type {
			case model.ConditionEquals:
				return num == want
			case model.ConditionGreaterThan:
				return num > want
			case model.ConditionLessThan:
				return num < want
			}
			return false
		}
	}

	got := answerAsString(answer)
	switch cond.Type {
	case model.ConditionEquals:
		return got == cond.Value
	case model.ConditionGreaterThan:
		return got > cond.Value
	case model.ConditionLessThan:
		return got < cond.Value
	}
	return false
}

func answerAsFloat(answer interface{}) (float64, bool) {
	switch v := answer.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func answerAsString(answer interface{}) string {
	switch v := answer.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
