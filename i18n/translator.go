package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "key" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"unknown_type":      "unknown type name '{name}'",
		"required":          "required field '{key}' missing",
		"null_value":        "field '{key}' cannot be null",
		"validation_failed": "validation failed",
		"unsupported_value": "unsupported value",
		"invalid_type":      "invalid type: expected {expected}",
		"invalid_format":    "invalid format",
		"overflow":          "number out of range for {type}",
		"invalid_schema":    "invalid kind definition",
		"missing_field":     "field '{key}' is not set",
		"frozen":            "record is read-only",
		"unknown_kind":      "unknown kind '{kind}'",
		"duplicate_key":     "duplicate key",
		"parse_error":       "parse error",
		"truncated":         "truncated",
	},
	"ja": {
		"unknown_type":      "不明な型名です: '{name}'",
		"required":          "必須フィールド '{key}' がありません",
		"null_value":        "フィールド '{key}' に null は設定できません",
		"validation_failed": "検証に失敗しました",
		"unsupported_value": "サポートされていない値です",
		"invalid_type":      "型が不正です: {expected} が必要です",
		"invalid_format":    "形式が不正です",
		"overflow":          "{type} の範囲外の数値です",
		"invalid_schema":    "種別の定義が不正です",
		"missing_field":     "フィールド '{key}' は設定されていません",
		"frozen":            "レコードは読み取り専用です",
		"unknown_kind":      "不明な種別です: '{kind}'",
		"duplicate_key":     "キーが重複しています",
		"parse_error":       "解析エラー",
		"truncated":         "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return msg
	}
	args := make([]string, 0, len(data)*2)
	for k, v := range data {
		args = append(args, "{"+k+"}", v)
	}
	return strings.NewReplacer(args...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
