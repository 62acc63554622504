// Package i18n holds the console's user-facing texts in English and Russian.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	FetchSuccessTitle  = "fetch.success.title"
	FetchSuccessBody   = "fetch.success.body"
	FetchErrorTitle    = "fetch.error.title"
	FetchErrorBody     = "fetch.error.body"
	DeleteSuccessTitle = "delete.success.title"
	DeleteSuccessBody  = "delete.success.body" // args: full name
	DeleteErrorTitle   = "delete.error.title"
	DeleteErrorBody    = "delete.error.body"
	EditSuccessTitle   = "edit.success.title"
	EditSuccessBody    = "edit.success.body" // args: full name

	FirstNameRequired = "form.first_name.required"
	LastNameRequired  = "form.last_name.required"

	PageTitle         = "ui.title"
	TotalCount        = "ui.total" // args: total
	SearchPlaceholder = "ui.search.placeholder"
	ColumnID          = "ui.column.id"
	ColumnEmail       = "ui.column.email"
	ColumnFirstName   = "ui.column.first_name"
	ColumnLastName    = "ui.column.last_name"
	ModalTitle        = "ui.modal.title"
	ButtonSave        = "ui.button.save"
	ButtonDelete      = "ui.button.delete"
	ButtonCancel      = "ui.button.cancel"
	ConfirmDelete     = "ui.confirm.delete"
	ConfirmYes        = "ui.confirm.yes"
	ConfirmNo         = "ui.confirm.no"
	Loading           = "ui.loading"
	NoData            = "ui.no_data"
)

var messages = map[language.Tag]map[string]string{
	language.English: {
		FetchSuccessTitle:  "Fetching the user list",
		FetchSuccessBody:   "User data fetched successfully",
		FetchErrorTitle:    "Failed to fetch the user list",
		FetchErrorBody:     "Could not fetch user data",
		DeleteSuccessTitle: "Deleting a user",
		DeleteSuccessBody:  "User %s deleted",
		DeleteErrorTitle:   "Failed to delete the user",
		DeleteErrorBody:    "Could not delete the user",
		EditSuccessTitle:   "Editing a user",
		EditSuccessBody:    "User %s updated",
		FirstNameRequired:  "Enter the first name!",
		LastNameRequired:   "Enter the last name!",
		PageTitle:          "Users",
		TotalCount:         "Total: %d",
		SearchPlaceholder:  "Search users",
		ColumnID:           "ID",
		ColumnEmail:        "Email",
		ColumnFirstName:    "First name",
		ColumnLastName:     "Last name",
		ModalTitle:         "Edit user",
		ButtonSave:         "Save",
		ButtonDelete:       "Delete",
		ButtonCancel:       "Cancel",
		ConfirmDelete:      "Are you sure you want to delete this user?",
		ConfirmYes:         "Yes",
		ConfirmNo:          "No",
		Loading:            "Loading…",
		NoData:             "No data",
	},
	language.Russian: {
		FetchSuccessTitle:  "Получение списка пользователей",
		FetchSuccessBody:   "Данные пользователей успешно получены",
		FetchErrorTitle:    "Ошибка получения списка пользователей",
		FetchErrorBody:     "Не удалось получить данные пользователей",
		DeleteSuccessTitle: "Удаление пользователя",
		DeleteSuccessBody:  "Пользователь %s удален",
		DeleteErrorTitle:   "Ошибка удаления пользователя",
		DeleteErrorBody:    "Не удалось удалить пользователя",
		EditSuccessTitle:   "Редактирование пользователя",
		EditSuccessBody:    "Пользователь %s обновлён",
		FirstNameRequired:  "Введите имя!",
		LastNameRequired:   "Введите фамилию!",
		PageTitle:          "Пользователи",
		TotalCount:         "Всего: %d",
		SearchPlaceholder:  "Поиск по пользователям",
		ColumnID:           "ID",
		ColumnEmail:        "Email",
		ColumnFirstName:    "Имя",
		ColumnLastName:     "Фамилия",
		ModalTitle:         "Редактировать пользователя",
		ButtonSave:         "Сохранить",
		ButtonDelete:       "Удалить",
		ButtonCancel:       "Отмена",
		ConfirmDelete:      "Вы уверены, что хотите удалить этого пользователя?",
		ConfirmYes:         "Да",
		ConfirmNo:          "Нет",
		Loading:            "Загрузка…",
		NoData:             "Нет данных",
	},
}

var supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(supported)

var builder = mustBuildCatalog()

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("i18n: register %s/%s: %v", tag, key, err))
			}
		}
	}
	return b
}

// Translator renders message keys for one locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Translator for locale ("en", "ru", "ru-RU", ...). Unknown but
// well-formed locales fall back to English; malformed ones are an error.
func New(locale string) (*Translator, error) {
	requested, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	_, idx, _ := matcher.Match(requested)
	tag := supported[idx]

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

// Tag returns the matched language.
func (t *Translator) Tag() language.Tag {
	return t.tag
}

// T formats the message registered under key.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}
