// Package link maps hyperlink schemes to the handlers that implement them.
//
// A Dispatcher owns one binding per scheme. Hosts look bindings up while
// highlighting (Activate), when the user follows a link (Follow) and when
// showing hover text (Tooltip). Registering a scheme a second time replaces
// the earlier binding.
package link
