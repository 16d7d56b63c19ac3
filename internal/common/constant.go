package common

// SessionCookieName is the cookie used to carry the session token
// between the browser and the server.
const SessionCookieName = "session_token"
