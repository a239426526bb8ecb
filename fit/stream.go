package fit

// Stream walks every data message in a FIT file in wire order without
// assembling an Activity. fn sees each message as soon as it decodes; a
// non-nil return stops the walk and comes back unchanged. Messages already
// delivered stay delivered when a later record turns out malformed.
func Stream(data []byte, fn func(Message) error) error {
	return newDecoder().walk(data, fn)
}
