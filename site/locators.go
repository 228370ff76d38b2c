// Package site holds everything jobpilot knows about the Catho markup.
// The locators are isolated here because the site changes its DOM without
// notice; update this file when a run starts failing to find elements.
package site

import "fmt"

// Paths and query parameters.
const (
	LandingPath = "/area-candidato"
	SearchPath  = "/vagas/"
	PageParam   = "page"
)

// Button labels and status markers rendered by the site.
const (
	LabelApply           = "Quero me candidatar"
	LabelEasyApply       = "Enviar Candidatura Fácil"
	MarkerStarted        = "Candidatura Iniciada"
	MarkerResumeSent     = "Currículo já enviado"
	QuestionnaireHeading = "Questionário da vaga"

	// EmployerNoise is appended to the employer name by a tooltip link.
	EmployerNoise = "Por que?"
)

// Login form.
const (
	EmailInput    = `//input[@type='email']`
	PasswordInput = `//input[@type='password']`
)

// Search results page.
const (
	BannerClose = `//*[contains(concat(' ', normalize-space(@class), ' '), ' container-close-app-banner ')]`
	PageButtons = `//nav/a[contains(@class, 'PageButton')]`
	PostingList = `/html/body/div[1]/div[4]/main/div[3]/div/div/section/ul/li`
)

// Dialogs and toasts.
const (
	ConfirmButton      = `/html/body/section/div/article/div/form/button`
	InfoCloseButton    = `/html/body/section[2]/div/article/footer/button`
	QuestionnaireTitle = `//header/div/h2[text()="` + QuestionnaireHeading + `"]`
	QuestionnaireClose = `//article/button[contains(@class, 'Modal__CloseIcon')]`
	Snackbar           = `//div[contains(@class, 'SnackBar__SnackBarDialog')]`
	SnackbarClose      = `//button[contains(@class, 'SnackBar__CloseButton')]`
)

// Employer locates the employer line of the posting at the 1-based index.
func Employer(idx int) string {
	return fmt.Sprintf(`//li[%d]/article/article/header/div/p`, idx)
}

// Title locates the title link of the posting at the 1-based index.
func Title(idx int) string {
	return fmt.Sprintf(`//li[%d]/article/article/header/div/div[1]/h2/a`, idx)
}

// AlreadyApplied matches either status marker inside the posting.
func AlreadyApplied(idx int) string {
	return fmt.Sprintf(
		`//li[%d]/descendant::div[text()='%s'] | //li[%d]/descendant::div[text()='%s']`,
		idx, MarkerStarted, idx, MarkerResumeSent,
	)
}

// ApplyButton matches either apply button inside the posting.
func ApplyButton(idx int) string {
	return fmt.Sprintf(
		`//li[%d]/descendant::button[text()="%s"] | //li[%d]/descendant::button[text()="%s"]`,
		idx, LabelApply, idx, LabelEasyApply,
	)
}
