package controller

import "strings"

// Messages are the user-facing strings shown in the inline error region
type Messages struct {
	Validation string
	Failure    string
	Busy       string
	Inactive   string
}

var messages = map[string]Messages{
	"en": {
		Validation: "Error: Please fill in all fields with valid values.",
		Failure:    "Error: Calculation failed. Please check your connection and try again.",
		Busy:       "Error: A calculation for this scenario is already in progress.",
		Inactive:   "Error: Select this scenario before calculating.",
	},
	"ar": {
		Validation: "خطأ: يرجى ملء جميع الحقول بقيم صحيحة.",
		Failure:    "خطأ: فشل في الحساب. يرجى التحقق من الاتصال والمحاولة مرة أخرى.",
		Busy:       "خطأ: يوجد حساب قيد التنفيذ لهذا السيناريو.",
		Inactive:   "خطأ: يرجى اختيار هذا السيناريو قبل الحساب.",
	},
}

// MessagesFor returns the strings for a display language, falling back to English
func MessagesFor(lang string) Messages {
	if m, ok := messages[strings.ToLower(strings.TrimSpace(lang))]; ok {
		return m
	}
	return messages["en"]
}
