package jnikit_test

import (
	"errors"
	"fmt"

	"github.com/swifdroid/jnikit"
	"github.com/swifdroid/jnikit/jnitest"
	"github.com/swifdroid/jnikit/logcat"
)

// Resolving a class and a method id once caches both; later resolutions
// are answered without touching the VM.
func ExampleBridge() {
	vm := jnitest.NewVM()
	vm.AddClass("android/util/Log", jnitest.ClassDef{
		StaticMethods: []jnitest.Member{
			{Name: "i", Sig: "(Ljava/lang/String;Ljava/lang/String;)I"},
		},
	})

	b := jnikit.New(vm, jnikit.WithLogger(logcat.NewNop()))
	defer b.Close()

	cls, err := b.ResolveClass("android.util.Log")
	if err != nil {
		fmt.Println("resolve:", err)
		return
	}
	sig := jnikit.MethodSig(jnikit.SigInt,
		jnikit.SigObject("java/lang/String"),
		jnikit.SigObject("java/lang/String"))
	if _, err := b.ResolveMethod(cls, "i", sig, true); err != nil {
		fmt.Println("resolve:", err)
		return
	}

	fmt.Println(cls.Name())
	fmt.Println(sig)
	// Output:
	// android/util/Log
	// (Ljava/lang/String;Ljava/lang/String;)I
}

// Application classes are invisible to the bootstrap lookup on Android.
// Registering the app's class loader routes resolution through it.
func ExampleBridge_classLoader() {
	vm := jnitest.NewVM()
	vm.AddClass("com/example/app/MainActivity", jnitest.ClassDef{LoaderOnly: true})

	b := jnikit.New(vm, jnikit.WithLogger(logcat.NewNop()))
	defer b.Close()

	_, err := b.ResolveClass("com/example/app/MainActivity")
	fmt.Println("without loader:", errors.Is(err, jnikit.ErrNotFound))

	if err := b.RegisterClassLoader(jnikit.AdoptGlobalRef(vm.NewLoaderObject())); err != nil {
		fmt.Println("register:", err)
		return
	}
	cls, err := b.ResolveClass("com/example/app/MainActivity")
	if err != nil {
		fmt.Println("resolve:", err)
		return
	}
	fmt.Println("with loader:", cls.Name())
	// Output:
	// without loader: true
	// with loader: com/example/app/MainActivity
}

// Descriptors compose from the primitive constants and the object and
// array constructors.
func ExampleMethodSig() {
	fmt.Println(jnikit.MethodSig(jnikit.SigVoid))
	fmt.Println(jnikit.MethodSig(jnikit.SigBoolean, jnikit.SigInt, jnikit.SigLong))
	fmt.Println(jnikit.MethodSig(
		jnikit.SigObject("java/lang/Class"),
		jnikit.SigObject("java/lang/String"),
	))
	fmt.Println(jnikit.MethodSig(jnikit.SigVoid, jnikit.SigArray(jnikit.SigByte)))
	// Output:
	// ()V
	// (IJ)Z
	// (Ljava/lang/String;)Ljava/lang/Class;
	// ([B)V
}
