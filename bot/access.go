package bot

// Decision is the outcome of an access check. Reason is only ever used for
// logging.
type Decision struct {
	Allowed bool
	Reason  string
}

// AccessFilter drops messages from ignored senders before any content
// processing happens. Membership is exact-match.
type AccessFilter struct {
	users map[string]struct{}
	ips   map[string]struct{}
}

func NewAccessFilter(ignoredUsers, ignoredIPs []string) *AccessFilter {
	f := &AccessFilter{
		users: make(map[string]struct{}, len(ignoredUsers)),
		ips:   make(map[string]struct{}, len(ignoredIPs)),
	}
	for _, u := range ignoredUsers {
		f.users[u] = struct{}{}
	}
	for _, ip := range ignoredIPs {
		f.ips[ip] = struct{}{}
	}
	return f
}

// Evaluate checks the sender against both ignore sets. An empty IP never
// matches.
func (f *AccessFilter) Evaluate(username, ip string) Decision {
	if _, found := f.users[username]; found {
		return Decision{Allowed: false, Reason: "ignored user"}
	}
	if ip != "" {
		if _, found := f.ips[ip]; found {
			return Decision{Allowed: false, Reason: "ignored ip"}
		}
	}
	return Decision{Allowed: true}
}
