// Package process launches external programs for the link subsystem.
//
// External editors are started fire-and-forget: the caller gets a Process
// handle it may watch (Done, ExitCode, Wait) or ignore. A Supervisor keeps
// track of running children, reports exits through a callback and can shut
// everything down when the editor exits.
//
//	sup := process.NewSupervisor(process.WithExitCallback(func(p *process.Process) {
//	    log.Printf("%s exited with %d", p.Name, p.ExitCode())
//	}))
//	defer sup.Shutdown(5 * time.Second)
//
//	proc, err := sup.Launch(ctx, process.Command{
//	    Name: "open",
//	    Line: "inkscape diagram.svg",
//	    Dir:  "/home/me/notes/.inkscape",
//	})
//
// Command lines run through the shell, so they may chain commands with &&.
//
// Both Supervisor and Process are safe for concurrent use.
package process
