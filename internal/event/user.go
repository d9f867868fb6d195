package event

// User is the signup payload of a hypothetical signup. FingerPrint is nil
// when the signup carried no fingerprint.
type User struct {
	Username    string  `json:"username"`
	IP          string  `json:"ip"`
	FingerPrint *string `json:"finger_print"`
	UserAgent   string  `json:"user_agent"`
	Email       string  `json:"email"`
	SuspIP      bool    `json:"susp_ip"`
}
