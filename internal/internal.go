package internal

const COOKIE_ACCESS_TOKEN_NAME = "kaccima_access_token"
