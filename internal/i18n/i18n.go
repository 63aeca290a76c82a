// Package i18n holds the localized conversation copy and the language type.
package i18n

import "strings"

// Lang is a supported reply language.
type Lang string

const (
	EN Lang = "EN"
	RU Lang = "RU"
	ES Lang = "ES"
)

// Langs lists supported languages in presentation order.
var Langs = []Lang{EN, RU, ES}

// Parse maps a user-supplied token to a Lang, defaulting to EN.
func Parse(raw string) Lang {
	switch Lang(strings.ToUpper(strings.TrimSpace(raw))) {
	case EN:
		return EN
	case RU:
		return RU
	case ES:
		return ES
	}
	return EN
}

// Copy is the message set for one language.
type Copy struct {
	Greet        string
	ChooseLang   string
	Service      string
	Services     []string
	Platform     string
	Platforms    []string
	Goal         string
	Goals        []string
	Budget       string
	Store        string
	Email        string
	Notes        string
	Summary      string
	InvalidLink  string
	InvalidEmail string
	Human        string
}

var copies = map[Lang]Copy{
	EN: {
		Greet:        "Hi! I’m Jenli ASO Assistant. I’ll ask a few quick questions to route you fast. You can type /human anytime to talk to Artem.",
		ChooseLang:   "Choose language / Выберите язык / Elige idioma:",
		Service:      "What do you need help with?",
		Services:     []string{"ASO", "Apple Search Ads (ASA)", "Consulting"},
		Platform:     "Which platform(s)?",
		Platforms:    []string{"iOS", "Android", "Both"},
		Goal:         "Main goal right now?",
		Goals:        []string{"More installs", "Better conversion", "Keyword ranking", "Scale paid (ASA)", "Other"},
		Budget:       "Do you have a monthly budget range for growth/ads/design? (You can skip)",
		Store:        "Share your app link(s): App Store / Google Play.",
		Email:        "What’s your email to send a plan & quote?",
		Notes:        "Anything else I should know? (deadlines, markets, competitors)",
		Summary:      "Thanks! Here’s a quick summary 👇 I’ll pass this to the JenLi team and we’ll get back to you shortly.",
		InvalidLink:  "Please send a valid App Store or Google Play link.",
		InvalidEmail: "That doesn’t look like an email. Try again or type 'skip'.",
		Human:        "Got it — I’ve alerted Artem. He’ll jump in shortly here.",
	},
	RU: {
		Greet:        "Привет! Я бот-ассистент Jenli ASO. Задам пару вопросов и быстро направлю вас к нужному решению. В любой момент напишите /human — подключу Артёма.",
		ChooseLang:   "Выберите язык / Choose language / Elige idioma:",
		Service:      "С чем нужна помощь?",
		Services:     []string{"ASO", "Apple Search Ads (ASA)", "Консультация"},
		Platform:     "Какая платформа?",
		Platforms:    []string{"iOS", "Android", "Обе"},
		Goal:         "Главная цель сейчас?",
		Goals:        []string{"Больше установок", "Выше конверсия", "Рост позиций по ключам", "Масштаб ASA", "Другое"},
		Budget:       "Есть ли бюджет на рост/рекламу/дизайн? (можно пропустить)",
		Store:        "Пришлите ссылку(и) на приложение: App Store / Google Play.",
		Email:        "Оставьте почту для плана и сметы:",
		Notes:        "Есть ли детали: сроки, страны, конкуренты?",
		Summary:      "Спасибо! Краткое резюме ниже 👇 Передаю в команду JenLi, мы скоро вернёмся с ответом.",
		InvalidLink:  "Пожалуйста, отправьте корректную ссылку App Store или Google Play.",
		InvalidEmail: "Похоже, это не e-mail. Попробуйте ещё раз или напишите 'skip'.",
		Human:        "Ок — сообщил Артёму. Он скоро подключится в этот чат.",
	},
	ES: {
		Greet:        "¡Hola! Soy el asistente de Jenli ASO. Haré unas preguntas rápidas para ayudarte mejor. En cualquier momento escribe /human para hablar con Artem.",
		ChooseLang:   "Elige idioma / Choose language / Выберите язык:",
		Service:      "¿Con qué necesitas ayuda?",
		Services:     []string{"ASO", "Apple Search Ads (ASA)", "Consultoría"},
		Platform:     "¿Qué plataforma(s)?",
		Platforms:    []string{"iOS", "Android", "Ambas"},
		Goal:         "¿Objetivo principal ahora?",
		Goals:        []string{"Más instalaciones", "Mejor conversión", "Ranking por keywords", "Escalar ASA", "Otro"},
		Budget:       "¿Tienes presupuesto mensual para crecimiento/ads/diseño? (puedes omitir)",
		Store:        "Comparte el/los enlaces de tu app: App Store / Google Play.",
		Email:        "¿Cuál es tu email para enviar plan y presupuesto?",
		Notes:        "¿Algo más que deba saber? (plazos, países, competidores)",
		Summary:      "¡Gracias! Resumen rápido abajo 👇 Lo paso al equipo de JenLi y pronto te daremos una respuesta.",
		InvalidLink:  "Por favor, envía un enlace válido de App Store o Google Play.",
		InvalidEmail: "Eso no parece un email. Inténtalo otra vez o escribe 'skip'.",
		Human:        "Hecho — ya avisé a Artem. Se unirá pronto aquí.",
	},
}

// Messages returns the copy set for lang, falling back to EN.
func Messages(lang Lang) Copy {
	if c, ok := copies[lang]; ok {
		return c
	}
	return copies[EN]
}

// Service canonical codes, stable across languages.
const (
	ServiceASO        = "aso"
	ServiceASA        = "asa"
	ServiceConsulting = "consulting"
)

// ServiceCode resolves a localized service label to its canonical code.
// Matching is a case-insensitive prefix check so both button labels and
// hand-typed variants resolve. Unrecognized input yields an empty code.
func ServiceCode(lang Lang, text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return ""
	}
	if strings.HasPrefix(t, "apple search ads") || t == "asa" {
		return ServiceASA
	}
	if strings.HasPrefix(t, "aso") {
		return ServiceASO
	}
	for _, label := range Messages(lang).Services {
		l := strings.ToLower(label)
		if strings.HasPrefix(t, l) || strings.HasPrefix(l, t) {
			switch {
			case strings.HasPrefix(l, "apple search ads"):
				return ServiceASA
			case strings.HasPrefix(l, "aso"):
				return ServiceASO
			default:
				return ServiceConsulting
			}
		}
	}
	return ""
}
