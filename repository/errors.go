package repository

import "errors"

var (
	// ErrUserNotFound is returned when a username resolves to no user.
	ErrUserNotFound = errors.New("user not found")
	// ErrGroupNotFound is returned when a slug resolves to no group.
	ErrGroupNotFound = errors.New("group not found")
	// ErrPostNotFound is returned when a post id resolves to no post.
	ErrPostNotFound = errors.New("post not found")
	// ErrFollowNotFound is returned when unfollowing a missing edge.
	ErrFollowNotFound = errors.New("follow edge not found")
	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
)
