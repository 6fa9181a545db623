// Package action connects link targets to the editor's context action
// menu.
//
// A Detector classifies the thing under the cursor. When the cursor is on
// a link of its scheme, including inside bold or code text in the link's
// description, it yields a Target tagged TagInkscapeLink whose value is
// the resolved image path. A Table maps tags to the actions offered for
// them.
package action
