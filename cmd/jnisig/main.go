// Command jnisig composes and validates JVM type signatures from the
// command line, the quickest way to get a method descriptor right
// before wiring it into resolution code.
//
//	$ jnisig method java.lang.String int
//	(I)Ljava/lang/String;
//
//	$ jnisig parse "(ILjava/lang/String;)V"
//	param  int
//	param  java.lang.String
//	return void
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/swifdroid/jnikit"
)

var colorize = term.IsTerminal(int(os.Stdout.Fd()))

var rootCmd = &cobra.Command{
	Use:           "jnisig",
	Short:         "Compose and validate JVM type signatures",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var methodCmd = &cobra.Command{
	Use:   "method <return> [param...]",
	Short: "Compose a method descriptor from type names",
	Long: `Compose a method descriptor. Types are Java names ("int",
"java.lang.String", "byte[]") or raw descriptors ("I", "[B").`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMethod,
}

var fieldCmd = &cobra.Command{
	Use:   "field <type>",
	Short: "Compose a field descriptor from a type name",
	Args:  cobra.ExactArgs(1),
	RunE:  runField,
}

var parseCmd = &cobra.Command{
	Use:   "parse <descriptor>",
	Short: "Validate a descriptor and print its parts",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(methodCmd, fieldCmd, parseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMethod(cmd *cobra.Command, args []string) error {
	ret, err := typeFromName(args[0], true)
	if err != nil {
		return err
	}
	params := make([]jnikit.TypeSig, 0, len(args)-1)
	for _, arg := range args[1:] {
		p, err := typeFromName(arg, false)
		if err != nil {
			return err
		}
		params = append(params, p)
	}
	fmt.Println(green(jnikit.MethodSig(ret, params...)))
	return nil
}

func runField(cmd *cobra.Command, args []string) error {
	t, err := typeFromName(args[0], false)
	if err != nil {
		return err
	}
	fmt.Println(green(t.String()))
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	desc := args[0]
	if strings.HasPrefix(desc, "(") {
		params, ret, err := jnikit.ParseMethodSig(desc)
		if err != nil {
			return err
		}
		for _, p := range params {
			fmt.Printf("param  %s\n", green(friendly(p)))
		}
		fmt.Printf("return %s\n", green(friendly(ret)))
		return nil
	}
	t, err := jnikit.ParseTypeSig(desc)
	if err != nil {
		return err
	}
	fmt.Println(green(friendly(t)))
	return nil
}

// typeFromName maps a Java-style type name or raw descriptor to a
// TypeSig. "int[]" style array suffixes stack.
func typeFromName(name string, allowVoid bool) (jnikit.TypeSig, error) {
	base := name
	dims := 0
	for strings.HasSuffix(base, "[]") {
		base = strings.TrimSuffix(base, "[]")
		dims++
	}
	var t jnikit.TypeSig
	switch base {
	case "boolean":
		t = jnikit.SigBoolean
	case "byte":
		t = jnikit.SigByte
	case "char":
		t = jnikit.SigChar
	case "short":
		t = jnikit.SigShort
	case "int":
		t = jnikit.SigInt
	case "long":
		t = jnikit.SigLong
	case "float":
		t = jnikit.SigFloat
	case "double":
		t = jnikit.SigDouble
	case "void", "V":
		// Raw "V" needs its own case: ParseTypeSig rejects bare void,
		// so the default branch would read it as a class named V.
		t = jnikit.SigVoid
	default:
		if parsed, err := jnikit.ParseTypeSig(base); err == nil {
			t = parsed
		} else {
			t = jnikit.SigObject(base)
			if _, err := jnikit.ParseTypeSig(t.String()); err != nil {
				return jnikit.TypeSig{}, fmt.Errorf("bad type name %q", name)
			}
		}
	}
	if t.IsVoid() {
		if dims > 0 {
			return jnikit.TypeSig{}, fmt.Errorf("bad type name %q: array of void", name)
		}
		if !allowVoid {
			return jnikit.TypeSig{}, fmt.Errorf("void is only valid as a return type")
		}
	}
	for i := 0; i < dims; i++ {
		t = jnikit.SigArray(t)
	}
	return t, nil
}

// friendly renders a descriptor as a Java-style type name.
func friendly(t jnikit.TypeSig) string {
	desc := t.String()
	dims := 0
	for strings.HasPrefix(desc, "[") {
		desc = desc[1:]
		dims++
	}
	var base string
	switch desc {
	case "Z":
		base = "boolean"
	case "B":
		base = "byte"
	case "C":
		base = "char"
	case "S":
		base = "short"
	case "I":
		base = "int"
	case "J":
		base = "long"
	case "F":
		base = "float"
	case "D":
		base = "double"
	case "V":
		base = "void"
	default:
		inner := strings.TrimSuffix(strings.TrimPrefix(desc, "L"), ";")
		base = strings.ReplaceAll(inner, "/", ".")
	}
	return base + strings.Repeat("[]", dims)
}

func green(s string) string {
	if colorize {
		return "\x1b[32m" + s + "\x1b[0m"
	}
	return s
}
