// Command jnish is an interactive workbench for the bridge's
// resolution, caching, and reference behavior. It runs against the
// in-memory VM from the jnitest package, so there is nothing to
// install: define classes, resolve them, flip the class loader on, and
// watch the cache and call counters move.
//
//	jnish> class android/util/Log
//	jnish> method android/util/Log i (Ljava/lang/String;Ljava/lang/String;)I static
//	jnish> counters
//
// Input is read with line editing and history on a terminal, or line
// by line when piped.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/swifdroid/jnikit"
	"github.com/swifdroid/jnikit/jnitest"
)

type shell struct {
	vm       *jnitest.VM
	bridge   *jnikit.Bridge
	defs     map[string]*jnitest.ClassDef
	loaderOn bool
}

func main() {
	vm := jnitest.NewVM()
	sh := &shell{
		vm:     vm,
		bridge: jnikit.New(vm),
		defs:   seed(vm),
	}
	fmt.Println(`jnish: resolution workbench on an in-memory VM. Type "help".`)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		runInteractive(sh)
	} else {
		runPiped(sh)
	}
}

// seed defines the classes the workbench starts with, including one
// that only a registered class loader can see. The returned map lets
// later defmethod/deffield commands extend these definitions instead
// of replacing them.
func seed(vm *jnitest.VM) map[string]*jnitest.ClassDef {
	defs := map[string]*jnitest.ClassDef{
		"android/util/Log": {
			StaticMethods: []jnitest.Member{
				{Name: "i", Sig: "(Ljava/lang/String;Ljava/lang/String;)I"},
				{Name: "w", Sig: "(Ljava/lang/String;Ljava/lang/String;)I"},
			},
		},
		"android/os/Build$VERSION": {
			StaticFields: []jnitest.Member{{Name: "SDK_INT", Sig: "I"}},
		},
		"com/example/app/MainActivity": {
			Methods:    []jnitest.Member{{Name: "runOnUiThread", Sig: "(Ljava/lang/Runnable;)V"}},
			LoaderOnly: true,
		},
	}
	for name, def := range defs {
		vm.AddClass(name, *def)
	}
	return defs
}

func runInteractive(sh *shell) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	for {
		input, err := line.Prompt("jnish> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if !sh.eval(input) {
			return
		}
	}
}

func runPiped(sh *shell) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		input := strings.TrimSpace(sc.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		fmt.Println("jnish> " + input)
		if !sh.eval(input) {
			return
		}
	}
}

// eval runs one command and reports whether the shell should continue.
func (sh *shell) eval(input string) bool {
	args := strings.Fields(input)
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "exit", "quit":
		return false
	case "help":
		help()
	case "class":
		sh.cmdClass(rest)
	case "method":
		sh.cmdMember(rest, true)
	case "field":
		sh.cmdMember(rest, false)
	case "define":
		sh.cmdDefine(rest)
	case "defmethod":
		sh.cmdDefMember(rest, true)
	case "deffield":
		sh.cmdDefMember(rest, false)
	case "loader":
		sh.cmdLoader()
	case "preload":
		sh.cmdPreload(rest)
	case "detach":
		sh.bridge.DetachCurrentThread()
		fmt.Println("detached; the next operation re-attaches")
	case "stats":
		sh.cmdStats()
	case "counters":
		sh.cmdCounters()
	default:
		fmt.Printf("unknown command %q, try \"help\"\n", cmd)
	}
	return true
}

func help() {
	fmt.Print(`commands:
  class <name>                          resolve a class
  method <class> <name> <sig> [static]  resolve a method
  field <class> <name> <sig> [static]   resolve a field
  define <name> [loader-only]           define a class on the VM
  defmethod <class> <name> <sig> [static]
  deffield <class> <name> <sig> [static]
  loader                                register a class loader
  preload <name>...                     warm the class cache
  detach                                detach the ambient thread
  stats                                 bridge cache counters
  counters                              raw VM call counters
  exit
`)
}

func (sh *shell) cmdClass(rest []string) {
	if len(rest) != 1 {
		fmt.Println("usage: class <name>")
		return
	}
	cls, err := sh.bridge.ResolveClass(rest[0])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s = 0x%x\n", cls.Name(), uintptr(cls.Handle()))
}

func (sh *shell) cmdMember(rest []string, method bool) {
	static := len(rest) == 4 && rest[3] == "static"
	if len(rest) != 3 && !static {
		kind := "field"
		if method {
			kind = "method"
		}
		fmt.Printf("usage: %s <class> <name> <sig> [static]\n", kind)
		return
	}
	cls, err := sh.bridge.ResolveClass(rest[0])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if method {
		id, err := sh.bridge.ResolveMethod(cls, rest[1], rest[2], static)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("method id 0x%x\n", uintptr(id))
		return
	}
	id, err := sh.bridge.ResolveField(cls, rest[1], rest[2], static)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("field id 0x%x\n", uintptr(id))
}

func (sh *shell) cmdDefine(rest []string) {
	loaderOnly := len(rest) == 2 && rest[1] == "loader-only"
	if len(rest) != 1 && !loaderOnly {
		fmt.Println("usage: define <name> [loader-only]")
		return
	}
	name := canon(rest[0])
	def := sh.def(name)
	def.LoaderOnly = loaderOnly
	sh.vm.AddClass(name, *def)
	fmt.Printf("defined %s\n", name)
}

func (sh *shell) cmdDefMember(rest []string, method bool) {
	static := len(rest) == 4 && rest[3] == "static"
	if len(rest) != 3 && !static {
		kind := "deffield"
		if method {
			kind = "defmethod"
		}
		fmt.Printf("usage: %s <class> <name> <sig> [static]\n", kind)
		return
	}
	name := canon(rest[0])
	def := sh.def(name)
	m := jnitest.Member{Name: rest[1], Sig: rest[2]}
	switch {
	case method && static:
		def.StaticMethods = append(def.StaticMethods, m)
	case method:
		def.Methods = append(def.Methods, m)
	case static:
		def.StaticFields = append(def.StaticFields, m)
	default:
		def.Fields = append(def.Fields, m)
	}
	sh.vm.AddClass(name, *def)
	fmt.Printf("defined member on %s\n", name)
}

// def returns the accumulated definition for a class, so member
// definitions build up instead of replacing each other.
func (sh *shell) def(name string) *jnitest.ClassDef {
	d, ok := sh.defs[name]
	if !ok {
		d = &jnitest.ClassDef{}
		sh.defs[name] = d
	}
	return d
}

func (sh *shell) cmdLoader() {
	if sh.loaderOn {
		fmt.Println("class loader already registered")
		return
	}
	ref := jnikit.AdoptGlobalRef(sh.vm.NewLoaderObject())
	if err := sh.bridge.RegisterClassLoader(ref); err != nil {
		fmt.Println("error:", err)
		return
	}
	sh.loaderOn = true
	fmt.Println("class loader registered; loader-only classes now resolve")
}

func (sh *shell) cmdPreload(rest []string) {
	if len(rest) == 0 {
		fmt.Println("usage: preload <name>...")
		return
	}
	if err := sh.bridge.Preload(rest...); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("preloaded %d classes\n", len(rest))
}

func (sh *shell) cmdStats() {
	s := sh.bridge.Stats()
	fmt.Printf("classes   hits %-6d misses %d\n", s.ClassHits, s.ClassMisses)
	fmt.Printf("members   hits %-6d misses %d\n", s.MemberHits, s.MemberMisses)
	fmt.Printf("negative  hits %d\n", s.NegativeHits)
	fmt.Printf("cached    classes %d, members %d\n", s.CachedClasses, s.CachedMembers)
	fmt.Printf("hit rate  %.2f\n", s.HitRate())
}

func (sh *shell) cmdCounters() {
	c := sh.vm.Counters()
	fmt.Printf("FindClass %d  LoadClass %d  GetEnv %d  Attach %d  Detach %d\n",
		c.FindClass, c.LoadClass, c.GetEnv, c.Attach, c.Detach)
	fmt.Printf("GetMethodID %d  GetStaticMethodID %d  GetFieldID %d  GetStaticFieldID %d\n",
		c.GetMethodID, c.GetStaticMethodID, c.GetFieldID, c.GetStaticFieldID)
	fmt.Printf("NewGlobalRef %d  DeleteGlobalRef %d  DeleteLocalRef %d\n",
		c.NewGlobalRef, c.DeleteGlobalRef, c.DeleteLocalRef)
	fmt.Printf("live globals %d  live locals %d  double deletes %d\n",
		sh.vm.LiveGlobalRefs(), sh.vm.LiveLocalRefs(), sh.vm.DoubleDeletes())
}

func canon(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
