package models

// FriendLink is a directed edge: UserID has added FriendID as a friend.
// The reverse edge is a separate row and may be absent.
type FriendLink struct {
	ID        int64
	UserID    int64
	FriendID  int64
	CreatedAt int64
}
