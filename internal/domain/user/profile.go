package user

// Profile is a snapshot of a user's identity used to move values between
// the storage, cache and transport layers. It holds no behavior beyond
// field access and performs no validation.
//
// Profile has value semantics: copies are independent. It is not safe for
// concurrent mutation.
type Profile struct {
	loginType    string
	userID       string
	userName     string
	userNickname string
}

// NewProfile builds a fully populated Profile.
func NewProfile(loginType, userID, userName, userNickname string) Profile {
	return Profile{
		loginType:    loginType,
		userID:       userID,
		userName:     userName,
		userNickname: userNickname,
	}
}

// LoginType returns the authentication method, e.g. "local" or an OAuth provider name.
func (p *Profile) LoginType() string { return p.loginType }

// SetLoginType replaces the authentication method.
func (p *Profile) SetLoginType(v string) { p.loginType = v }

// UserID returns the user identifier.
func (p *Profile) UserID() string { return p.userID }

// SetUserID replaces the user identifier.
func (p *Profile) SetUserID(v string) { p.userID = v }

// UserName returns the display or account name.
func (p *Profile) UserName() string { return p.userName }

// SetUserName replaces the display or account name.
func (p *Profile) SetUserName(v string) { p.userName = v }

// UserNickname returns the secondary display label.
func (p *Profile) UserNickname() string { return p.userNickname }

// SetUserNickname replaces the secondary display label.
func (p *Profile) SetUserNickname(v string) { p.userNickname = v }
