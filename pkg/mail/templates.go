package mail

import (
	"strings"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

type templateText struct {
	subject string
	body    string
}

// Placeholders use {{name}} and are substituted from the vars map. Missing
// vars render as an empty string rather than failing the send.
var templatesNL = map[enums.MailTemplate]templateText{
	enums.MailSupplierInvitation: {
		subject: "Uitnodiging leveranciersregistratie {{company_name}}",
		body: "Beste {{contact_name}},\n\n" +
			"U bent uitgenodigd om uw leveranciersgegevens aan te vullen.\n" +
			"Gebruik onderstaande link, deze is geldig tot {{expires_at}}.\n\n" +
			"{{portal_url}}\n\n" +
			"Met vriendelijke groet,\n{{label}}",
	},
	enums.MailSupplierConfirmation: {
		subject: "Bevestiging ontvangst leveranciersgegevens",
		body: "Beste {{contact_name}},\n\n" +
			"Wij hebben uw gegevens in goede orde ontvangen. U hoeft verder niets te doen.\n\n" +
			"Met vriendelijke groet,\n{{label}}",
	},
	enums.MailSupplierSubmitted: {
		subject: "Leverancier {{company_name}} heeft gegevens ingediend",
		body: "De leverancier {{company_name}} heeft het registratieformulier ingevuld.\n" +
			"De aanvraag wacht nu op beoordeling door inkoop.\n\n{{request_url}}",
	},
	enums.MailAwaitingFinance: {
		subject: "Aanvraag {{company_name}} wacht op finance",
		body: "De aanvraag voor {{company_name}} is beoordeeld door inkoop en wacht op finance.\n\n{{request_url}}",
	},
	enums.MailAwaitingERP: {
		subject: "Aanvraag {{company_name}} wacht op ERP-verwerking",
		body: "De aanvraag voor {{company_name}} is goedgekeurd door finance en wacht op ERP-verwerking.\n\n{{request_url}}",
	},
	enums.MailRequestCompleted: {
		subject: "Aanvraag {{company_name}} afgerond",
		body: "De leveranciersaanvraag voor {{company_name}} is volledig verwerkt.\n" +
			"Crediteurnummer: {{creditor_number}}\n\n{{request_url}}",
	},
	enums.MailReminder: {
		subject: "Herinnering: leveranciersaanvraag {{company_name}} wacht op actie",
		body: "De aanvraag voor {{company_name}} staat al {{days_open}} dagen open in status {{status}}.\n\n{{request_url}}",
	},
	enums.MailUserActivation: {
		subject: "Activeer uw account",
		body: "Beste {{name}},\n\n" +
			"Er is een account voor u aangemaakt. Activeer het via onderstaande link, geldig tot {{expires_at}}.\n\n" +
			"{{activation_url}}",
	},
	enums.MailPasswordReset: {
		subject: "Wachtwoord opnieuw instellen",
		body: "Beste {{name}},\n\n" +
			"Gebruik onderstaande link om uw wachtwoord opnieuw in te stellen. De link is een uur geldig.\n\n" +
			"{{reset_url}}",
	},
}

var templatesEN = map[enums.MailTemplate]templateText{
	enums.MailSupplierInvitation: {
		subject: "Supplier registration invitation {{company_name}}",
		body: "Dear {{contact_name}},\n\n" +
			"You have been invited to complete your supplier details.\n" +
			"Use the link below, valid until {{expires_at}}.\n\n" +
			"{{portal_url}}\n\n" +
			"Kind regards,\n{{label}}",
	},
	enums.MailSupplierConfirmation: {
		subject: "Confirmation of receipt",
		body: "Dear {{contact_name}},\n\n" +
			"We have received your details. No further action is required.\n\n" +
			"Kind regards,\n{{label}}",
	},
	enums.MailSupplierSubmitted: {
		subject: "Supplier {{company_name}} submitted details",
		body: "Supplier {{company_name}} completed the registration form.\n" +
			"The request is now awaiting purchasing review.\n\n{{request_url}}",
	},
	enums.MailAwaitingFinance: {
		subject: "Request {{company_name}} awaiting finance",
		body: "The request for {{company_name}} passed purchasing review and is awaiting finance.\n\n{{request_url}}",
	},
	enums.MailAwaitingERP: {
		subject: "Request {{company_name}} awaiting ERP processing",
		body: "The request for {{company_name}} was approved by finance and is awaiting ERP processing.\n\n{{request_url}}",
	},
	enums.MailRequestCompleted: {
		subject: "Request {{company_name}} completed",
		body: "The supplier request for {{company_name}} has been fully processed.\n" +
			"Creditor number: {{creditor_number}}\n\n{{request_url}}",
	},
	enums.MailReminder: {
		subject: "Reminder: supplier request {{company_name}} awaiting action",
		body: "The request for {{company_name}} has been open for {{days_open}} days in status {{status}}.\n\n{{request_url}}",
	},
	enums.MailUserActivation: {
		subject: "Activate your account",
		body: "Dear {{name}},\n\n" +
			"An account has been created for you. Activate it via the link below, valid until {{expires_at}}.\n\n" +
			"{{activation_url}}",
	},
	enums.MailPasswordReset: {
		subject: "Reset your password",
		body: "Dear {{name}},\n\n" +
			"Use the link below to reset your password. The link is valid for one hour.\n\n" +
			"{{reset_url}}",
	},
}

func lookup(template enums.MailTemplate, lang enums.Language) templateText {
	set := templatesNL
	if lang == enums.LanguageEN {
		set = templatesEN
	}
	if text, ok := set[template]; ok {
		return text
	}
	// Fall back to Dutch, the default correspondence language.
	return templatesNL[template]
}

func subjectFor(template enums.MailTemplate, vars map[string]string, lang enums.Language) string {
	return substitute(lookup(template, lang).subject, vars)
}

func renderBody(template enums.MailTemplate, vars map[string]string, lang enums.Language) string {
	return substitute(lookup(template, lang).body, vars)
}

func substitute(text string, vars map[string]string) string {
	out := text
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	// Blank any placeholder that was not provided.
	for {
		start := strings.Index(out, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(out[start:], "}}")
		if end < 0 {
			break
		}
		out = out[:start] + out[start+end+2:]
	}
	return out
}
