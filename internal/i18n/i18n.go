// Package i18n translates user-facing messages. The locale comes from the
// request's Accept-Language header.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is used when the caller asks for nothing we support.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the header GetLocale reads.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator resolves message keys per locale.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator returns a translator over the built-in catalogue.
func NewTranslator() *Translator {
	return &Translator{messages: buildMessages()}
}

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns key's message in locale. Missing locales and missing
// keys fall back to DefaultLocale, and an unknown key is returned as is.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supports reports whether locale has a catalogue.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// GetLocale picks the first supported language from Accept-Language, in
// header order. Region subtags are dropped, so "pt-BR" selects "pt".
func GetLocale(c *gin.Context) string {
	header := c.GetHeader(AcceptLanguageHeader)
	if header == "" {
		return DefaultLocale
	}

	t := GetTranslator()
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		lang, _, _ := strings.Cut(strings.TrimSpace(tag), "-")
		lang = strings.ToLower(lang)
		if t.Supports(lang) {
			return lang
		}
	}
	return DefaultLocale
}

// phrase holds one message in every supported locale.
type phrase struct {
	en, pt, nl string
}

var catalogue = map[string]phrase{
	ErrKeyInvalidRequest: {
		en: "Invalid request",
		pt: "Requisição inválida",
		nl: "Ongeldig verzoek",
	},
	ErrKeyInvalidRequestBody: {
		en: "Invalid request body",
		pt: "Corpo da requisição inválido",
		nl: "Ongeldige aanvraag body",
	},
	ErrKeyInternalError: {
		en: "An unexpected error occurred",
		pt: "Ocorreu um erro inesperado",
		nl: "Er is een onverwachte fout opgetreden",
	},
	ErrKeyUnauthorized: {
		en: "Unauthorized",
		pt: "Não autorizado",
		nl: "Niet geautoriseerd",
	},
	ErrKeyAPIKeyRequired: {
		en: "API key is required",
		pt: "Chave de API é obrigatória",
		nl: "API-sleutel is vereist",
	},
	ErrKeyInvalidAPIKey: {
		en: "Invalid API key",
		pt: "Chave de API inválida",
		nl: "Ongeldige API-sleutel",
	},
	ErrKeyForbidden: {
		en: "Forbidden",
		pt: "Proibido",
		nl: "Verboden",
	},
	ErrKeyNotFound: {
		en: "Not found",
		pt: "Não encontrado",
		nl: "Niet gevonden",
	},
	ErrKeyRateLimitExceeded: {
		en: "Too many requests, please try again later",
		pt: "Muitas requisições, tente novamente mais tarde",
		nl: "Te veel verzoeken, probeer het later opnieuw",
	},
	ErrKeyUnknownCoupon: {
		en: "Unknown coupon type",
		pt: "Tipo de cupom desconhecido",
		nl: "Onbekend kortingstype",
	},
	ErrKeyInvalidToken: {
		en: "Invalid or expired token",
		pt: "Token inválido ou expirado",
		nl: "Ongeldig of verlopen token",
	},
	ErrKeyTokenRequired: {
		en: "Authentication token is required",
		pt: "Token de autenticação é obrigatório",
		nl: "Authenticatietoken is vereist",
	},
	ErrKeyTimeout: {
		en: "Request timed out",
		pt: "Tempo limite da requisição excedido",
		nl: "Verzoek is verlopen",
	},
}

func buildMessages() map[string]map[string]string {
	messages := map[string]map[string]string{
		"en": make(map[string]string, len(catalogue)),
		"pt": make(map[string]string, len(catalogue)),
		"nl": make(map[string]string, len(catalogue)),
	}
	for key, p := range catalogue {
		messages["en"][key] = p.en
		messages["pt"][key] = p.pt
		messages["nl"][key] = p.nl
	}
	return messages
}
