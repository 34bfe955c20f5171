package thread

import "github.com/google/uuid"

// Identity 会话归属标识
// 登录用户和匿名会话二选一，线程行上只会落一个归属列
type Identity struct {
	userID    string
	sessionID string
}

// Authenticated 登录用户身份
func Authenticated(userID string) Identity {
	return Identity{userID: userID}
}

// Anonymous 匿名会话身份
func Anonymous(sessionToken string) Identity {
	return Identity{sessionID: sessionToken}
}

// IsAuthenticated 是否登录用户
func (i Identity) IsAuthenticated() bool {
	return i.userID != ""
}

// UserID 登录用户 ID，匿名身份返回空串
func (i Identity) UserID() string {
	return i.userID
}

// SessionID 匿名会话令牌，登录身份返回空串
func (i Identity) SessionID() string {
	return i.sessionID
}

// Valid 恰好设置了一种归属
func (i Identity) Valid() bool {
	return (i.userID != "") != (i.sessionID != "")
}

// NewSessionToken 生成匿名会话令牌
func NewSessionToken() string {
	return "anon_" + uuid.New().String()
}
