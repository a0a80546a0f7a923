//go:build windows

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BeitDina/kexrt"
	"golang.org/x/sys/windows"
)

func usage() {
	fmt.Print(
		"Native image introspection tool v", kexrt.Version, "\n",
		"Usage:\n",
		"    kexrt bitness <pid>\n",
		"    kexrt ntdll\n",
		"    kexrt export <procname>\n",
		"    kexrt show <pid> <addr> [size]\n",
		"    kexrt write <pid> <addr> <hexbytes>\n",
		"    kexrt run <exe> [<addr> <hexbytes>]\n",
		"    kexrt self\n",
	)
}

func pop(args *[]string) string {
	arg := (*args)[0]
	*args = (*args)[1:]
	return arg
}

func parseHex(s string, title string) uint64 {
	if strings.HasPrefix(s, "0x") {
		s = s[2:]
	}
	x, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		fmt.Printf("[?] Invalid %s: %s\n", title, s)
		os.Exit(1)
	}
	return x
}

func parsePid(s string) uint32 {
	pid, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		fmt.Printf("[?] Invalid pid: %s\n", s)
		os.Exit(1)
	}
	return uint32(pid)
}

func openOrExit(pid, access uint32) *kexrt.Process {
	process, err := kexrt.OpenProcess(pid, access)
	if err != nil {
		fmt.Println("[!]", err)
		os.Exit(1)
	}
	return process
}

func run(args []string) {
	if len(args) == 0 {
		usage()
		return
	}

	switch pop(&args) {
	case "bitness":
		if len(args) != 1 {
			usage()
			os.Exit(1)
		}
		process := openOrExit(parsePid(args[0]), windows.PROCESS_QUERY_LIMITED_INFORMATION)
		defer process.Close()
		fmt.Println(kexrt.RemoteProcessWidth(process))

	case "ntdll":
		base, err := kexrt.NativeSystemDllBase()
		if err != nil {
			fmt.Println("[!]", err)
			os.Exit(1)
		}
		fmt.Printf("%x\n", base)

	case "export":
		if len(args) != 1 {
			usage()
			os.Exit(1)
		}
		base, err := kexrt.NativeSystemDllBase()
		if err != nil {
			fmt.Println("[!]", err)
			os.Exit(1)
		}
		addr, err := kexrt.GetProcedureAddress(kexrt.CurrentProcess(), base, args[0])
		if err != nil {
			fmt.Println("[!]", err)
			os.Exit(1)
		}
		fmt.Printf("%x\n", addr)

	case "show":
		if len(args) < 2 || len(args) > 3 {
			usage()
			os.Exit(1)
		}
		process := openOrExit(parsePid(args[0]), windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ)
		defer process.Close()
		ea := uintptr(parseHex(args[1], "address"))
		size := uintptr(0x100)
		if len(args) == 3 {
			size = uintptr(parseHex(args[2], "size"))
		}
		data, err := process.ReadMemory(ea, size)
		if err != nil {
			fmt.Println("[!]", err)
			os.Exit(1)
		}
		kexrt.HexDump(os.Stdout, data, ea)

	case "write":
		if len(args) != 3 {
			usage()
			os.Exit(1)
		}
		process := openOrExit(parsePid(args[0]),
			windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_OPERATION|windows.PROCESS_VM_WRITE)
		defer process.Close()
		ea := uintptr(parseHex(args[1], "address"))
		data, err := hex.DecodeString(strings.ReplaceAll(args[2], " ", ""))
		if err != nil {
			fmt.Println("[?] Invalid hexbytes:", args[2])
			os.Exit(1)
		}
		if err := kexrt.WriteProtected(process, ea, data); err != nil {
			fmt.Println("[!]", err)
			os.Exit(1)
		}
		fmt.Printf("[d] wrote %d bytes at %x\n", len(data), ea)

	case "run":
		// start suspended so an optional patch lands before the first
		// instruction of the target runs
		if len(args) != 1 && len(args) != 3 {
			usage()
			os.Exit(1)
		}
		process, err := kexrt.CreateProcess(pop(&args), nil, kexrt.WithFlags(windows.CREATE_SUSPENDED))
		if err != nil {
			fmt.Println("[!]", err)
			os.Exit(1)
		}
		defer process.Close()
		fmt.Printf("[.] created pid %d suspended\n", process.Pid)
		if len(args) == 2 {
			ea := uintptr(parseHex(args[0], "address"))
			data, err := hex.DecodeString(strings.ReplaceAll(args[1], " ", ""))
			if err != nil {
				fmt.Println("[?] Invalid hexbytes:", args[1])
				os.Exit(1)
			}
			if err := kexrt.WriteProtected(process, ea, data); err != nil {
				fmt.Println("[!]", err)
				os.Exit(1)
			}
			fmt.Printf("[d] wrote %d bytes at %x\n", len(data), ea)
		}
		if err := process.Resume(); err != nil {
			fmt.Println("[!]", err)
			os.Exit(1)
		}
		fmt.Println("[.] resumed")

	case "self":
		name, err := kexrt.ProcessImageBaseName()
		if err != nil {
			fmt.Println("[!]", err)
			os.Exit(1)
		}
		fmt.Println("image:  ", name)
		fmt.Println("process:", kexrt.CurrentProcessWidth())
		fmt.Println("os:     ", kexrt.OperatingSystemWidth())

	default:
		usage()
		os.Exit(1)
	}
}

func main() {
	args := []string{}

	for _, arg := range os.Args[1:] {
		if arg == "help" || arg == "-h" || arg == "--help" {
			usage()
			return
		}
		if arg == "-v" || arg == "--verbose" {
			kexrt.Verbosity++
			continue
		}
		if arg == "--debug" {
			kexrt.Verbosity += 2
			continue
		}
		args = append(args, arg)
	}

	run(args)
}
