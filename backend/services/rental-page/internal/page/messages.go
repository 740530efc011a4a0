package page

import "energyrental/backend/services/rental-page/internal/view"

// User-facing texts.
const (
	MsgCopied          = "Text copied to clipboard"
	MsgEnterAddress    = "Please enter a TRON address"
	MsgExpired         = "Expired"
	MsgMinutesSuffix   = " minutes"
	MsgCurrentEnergy   = "Current energy:"
	MsgEnoughEnergy    = "You already have enough energy, no rental needed"
	MsgCanRent         = "Energy is available to rent"
	MsgEnergyNoInfo    = "Unable to fetch energy information"
	MsgEnergyCheckFail = "Error checking energy status"
)

var (
	noticeChecking = view.Notice{Tone: view.TonePrimary, Busy: true, Text: "Checking payment status..."}
	noticeSuccess  = view.Notice{Tone: view.ToneSuccess, Badge: "Payment successful", Text: "Energy delegated"}
	noticePending  = view.Notice{Tone: view.ToneWarning, Badge: "Processing", Text: "Payment received, the system is processing it"}
	noticeFailed   = view.Notice{Tone: view.ToneDanger, Badge: "Failed", Text: "Rental processing failed, please contact the administrator"}
	noticeWaiting  = view.Notice{Tone: view.ToneSecondary, Badge: "Awaiting payment", Text: "No payment detected"}
	noticeError    = view.Notice{Tone: view.ToneDanger, Badge: "Error", Text: "Error while checking payment status"}
	noticeTimedOut = view.Notice{Tone: view.ToneSecondary, Badge: "Timed out", Text: "Stopped checking, use the check button to retry"}
)
