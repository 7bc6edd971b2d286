package service

import "errors"

// 业务错误：handler 层用 errors.Is 映射到 HTTP 状态码
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailTaken      = errors.New("email already registered")
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrTokenNotFound   = errors.New("verification token not found or expired")

	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")

	ErrSelfBlock      = errors.New("cannot block yourself")
	ErrAlreadyBlocked = errors.New("user already blocked")
	ErrNotBlocked     = errors.New("user not blocked")
	ErrBlocked        = errors.New("action not allowed between blocked users")

	ErrPostNotFound    = errors.New("post not found")
	ErrPostTooLong     = errors.New("post content exceeds 500 characters")
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentTooLong  = errors.New("comment content exceeds 280 characters")
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrNotOwner        = errors.New("not the owner")
	ErrUnknownAction   = errors.New("unknown action")
	ErrUnknownFeedType = errors.New("unknown feed type")

	ErrSelfMessage = errors.New("cannot message yourself")

	ErrSelfReferral    = errors.New("cannot refer yourself")
	ErrAlreadyReferred = errors.New("user already has a referral record")

	ErrWalletExists   = errors.New("wallet already linked")
	ErrWalletNotFound = errors.New("no wallet linked")
)
