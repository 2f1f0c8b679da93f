package i18n

import (
	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type entry struct {
	key string
	en  string
	pt  string
}

var errorEntries = map[apperrors.Code]entry{
	apperrors.CodeUnauthenticated: {
		en: "Authentication required",
		pt: "Autenticação necessária",
	},
	apperrors.CodeForbidden: {
		en: "You do not have permission to perform this action",
		pt: "Você não tem permissão para realizar esta ação",
	},
	apperrors.CodeInvitationNotFound: {
		en: "Invitation not found",
		pt: "Convite não encontrado",
	},
	apperrors.CodeInvitationExpired: {
		en: "This invitation has expired",
		pt: "Este convite expirou",
	},
	apperrors.CodeInvitationAlreadyAccepted: {
		en: "This invitation has already been accepted",
		pt: "Este convite já foi aceito",
	},
	apperrors.CodeInvitationCancelled: {
		en: "This invitation was cancelled",
		pt: "Este convite foi cancelado",
	},
	apperrors.CodeInvitationNotPending: {
		en: "This invitation is no longer pending",
		pt: "Este convite não está mais pendente",
	},
	apperrors.CodeInvalidInput: {
		en: "Invalid request",
		pt: "Requisição inválida",
	},
	apperrors.CodeEmailTaken: {
		en: "This email is already registered",
		pt: "Este email já está cadastrado",
	},
	apperrors.CodeStore: {
		en: "An internal error occurred",
		pt: "Ocorreu um erro interno",
	},
	apperrors.CodeRegistrationIncomplete: {
		en: "Account created, but the invitation could not be accepted",
		pt: "Conta criada, mas houve um erro ao aceitar o convite",
	},
	apperrors.CodeAlreadyBootstrapped: {
		en: "System has already been bootstrapped",
		pt: "O sistema já foi inicializado",
	},
}

var textEntries = []entry{
	{"status.pending", "Pending", "Pendente"},
	{"status.accepted", "Accepted", "Aceito"},
	{"status.expired", "Expired", "Expirado"},
	{"status.cancelled", "Cancelled", "Cancelado"},
	{"expiry.expired", "Expired", "Expirado"},
	{"expiry.today", "Expires today", "Expira hoje"},
	{"expiry.tomorrow", "Expires tomorrow", "Expira amanhã"},
	{"expiry.days", "Expires in %d days", "Expira em %d dias"},
	{"role.analyst", "analyst", "analista"},
	{"role.client", "client", "cliente"},
	{"mail.subject", "You have been invited as %s", "Você foi convidado como %s"},
	{"mail.body",
		"You have been invited to join as %s.\n\nFinish your registration here:\n%s\n\n%s.",
		"Você foi convidado para participar como %s.\n\nConclua seu cadastro aqui:\n%s\n\n%s."},
}

func init() {
	for code, e := range errorEntries {
		register(errorKey(code), e)
	}
	for _, e := range textEntries {
		register(e.key, e)
	}
}

func register(key string, e entry) {
	_ = message.SetString(language.English, key, e.en)
	_ = message.SetString(PortugueseBR, key, e.pt)
}

// HasErrorMessage reports whether code has a localized description.
func HasErrorMessage(code apperrors.Code) bool {
	_, ok := errorEntries[code]
	return ok
}
