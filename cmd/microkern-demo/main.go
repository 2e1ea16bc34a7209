package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"microkern/pkg/cpu"
	"microkern/pkg/kernel"
	"microkern/pkg/process"
	"microkern/pkg/syscall"
)

func main() {
	configPath := flag.String("config", "", "path to a kernel YAML config")
	flag.Parse()

	cfg := kernel.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = kernel.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
			os.Exit(1)
		}
	}

	k, err := kernel.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building kernel: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Microkern Process Layer Demo ===")
	fmt.Println()

	k.Boot()
	fmt.Printf("Booted kernel, boot ID %s\n", k.BootID())

	// Process creation
	fmt.Println("\n--- Process Creation ---")
	specs := []struct {
		name      string
		priority  process.Priority
		stackSize uint64
		heapSize  uint64
	}{
		{"logger", process.PriorityLow, 0x2000, 0x8000},
		{"shell", process.PriorityNormal, 0x4000, 0x10000},
		{"netd", process.PriorityHigh, 0x2000, 0x20000},
	}
	for _, s := range specs {
		pid, err := k.CreateProcess(s.name, s.priority, s.stackSize, s.heapSize)
		if err != nil {
			log.Fatalf("creating %s: %v", s.name, err)
		}
		pcb, _ := k.Table().Get(pid)
		fmt.Printf("Created %-8s pid=%d priority=%s stack=%#x heap=%#x\n",
			s.name, pid, pcb.Priority, pcb.StackTop, pcb.HeapStart)
	}

	// Timer-driven preemption
	fmt.Println("\n--- Timer Preemption ---")
	current, _ := k.CurrentPID()
	fmt.Printf("Current before ticks: pid %d\n", current)
	for slice := 0; slice < 3; slice++ {
		for i := 0; i < process.TimeSlice; i++ {
			k.OnTick()
		}
		current, _ = k.CurrentPID()
		fmt.Printf("After slice %d: pid %d\n", slice+1, current)
	}

	// Syscalls through a real trap frame
	fmt.Println("\n--- Syscalls ---")
	trap(k, "get_pid", uint64(syscall.GetPid), syscall.Args{})

	addr := k.Memory().Base()
	length, err := k.Memory().WriteString(addr, "spawned-by-syscall")
	if err != nil {
		log.Fatalf("writing name: %v", err)
	}
	trap(k, "create_process", uint64(syscall.CreateProcess), syscall.Args{
		Arg0: addr,
		Arg1: length,
		Arg2: uint64(process.PriorityNormal),
		Arg3: 0x2000,
		Arg4: 0x8000,
	})
	trap(k, "yield", uint64(syscall.Yield), syscall.Args{})
	trap(k, "unknown(42)", 42, syscall.Args{})

	// Process table and stats
	fmt.Println("\n--- Process Table ---")
	for _, info := range k.Table().List() {
		fmt.Printf("pid=%-3d name=%-20s state=%s\n", info.PID, info.Name, info.State)
	}

	stats := k.Stats()
	fmt.Println("\n--- System Stats ---")
	fmt.Printf("Ticks: %d  Switches: %d  Algorithm: %s\n",
		stats.Ticks, stats.Scheduler.TotalSwitches, stats.Scheduler.Algorithm)
	fmt.Printf("Processes: total=%d running=%d ready=%d blocked=%d terminated=%d\n",
		stats.Processes.Total, stats.Processes.Running, stats.Processes.Ready,
		stats.Processes.Blocked, stats.Processes.Terminated)
}

// trap builds a saved-register frame for the call, runs it through the
// kernel's syscall entry and prints the decoded result from the RAX slot.
func trap(k *kernel.Kernel, label string, num uint64, args syscall.Args) {
	regs := cpu.NewRegisters()
	regs.RAX = num
	regs.RDI = args.Arg0
	regs.RSI = args.Arg1
	regs.RDX = args.Arg2
	regs.R10 = args.Arg3
	regs.R8 = args.Arg4
	regs.R9 = args.Arg5

	f := syscall.Push(regs)
	k.Syscall(f)

	res := syscall.Decode(f[syscall.SlotRAX])
	if res.IsError() {
		fmt.Printf("%-18s -> error %s\n", label, res.Errno())
	} else {
		fmt.Printf("%-18s -> %d\n", label, res.Value())
	}
}
