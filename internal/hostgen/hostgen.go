// Package hostgen renders a binding plan as the Rust shim file that the
// host crate includes.
package hostgen

import (
	"rid/internal/format"
	"rid/internal/plan"
)

// Header starts every generated host file.
const Header = "// Code generated by rid. DO NOT EDIT."

type Options struct {
	// Module is the private module wrapping the shims; its public items are
	// re-exported into the including scope.
	Module string
}

func (o Options) withDefaults() Options {
	if o.Module == "" {
		o.Module = "__rid_generated"
	}
	return o
}

type gen struct {
	p *plan.Plan
	w *format.Writer
}

// Generate renders p. The output depends only on p and opt.
func Generate(p *plan.Plan, opt Options) []byte {
	opt = opt.withDefaults()
	g := &gen{p: p, w: format.NewWriter(format.Options{})}
	w := g.w

	w.Line(Header)
	w.Blank()
	w.Line("#[allow(non_snake_case, non_camel_case_types, dead_code, unused_imports, improper_ctypes_definitions, clippy::all)]")
	w.Openf("mod %s", opt.Module)
	w.Line("use super::*;")
	w.Blank()

	g.emitRuntime()
	for _, s := range p.Structs {
		g.emitStruct(s)
	}
	for _, e := range p.Enums {
		g.emitEnum(e)
	}
	for _, f := range p.Funcs {
		g.emitFunc(f)
	}
	if p.Store != nil {
		g.emitStore(p.Store)
	}
	if p.Message != nil {
		g.emitMessages(p.Message)
	}
	if p.ReplyPort {
		g.emitReplyPort()
	}
	for _, r := range p.Replies {
		g.emitReply(r)
	}
	for _, v := range p.Vecs {
		g.emitVec(v)
	}
	for _, m := range p.Maps {
		g.emitMap(m)
	}

	w.Close()
	w.Blank()
	w.Linef("pub use %s::*;", opt.Module)
	return w.Bytes()
}

func (g *gen) exported(signature string, args ...any) {
	g.w.Blank()
	g.w.Line("#[no_mangle]")
	g.w.Openf("pub extern \"C\" fn "+signature, args...)
}

const runtime = `fn rid_abort(fn_name: &str, what: &str) -> ! {
    eprintln!("rid: {}: {}", fn_name, what);
    std::process::abort()
}

fn rid_ref<'a, T>(ptr: *const T, fn_name: &str) -> &'a T {
    match unsafe { ptr.as_ref() } {
        Some(value) => value,
        None => rid_abort(fn_name, "null pointer"),
    }
}

fn rid_mut<'a, T>(ptr: *mut T, fn_name: &str) -> &'a mut T {
    match unsafe { ptr.as_mut() } {
        Some(value) => value,
        None => rid_abort(fn_name, "null pointer"),
    }
}

fn rid_borrow_ptr<T>(value: &T) -> *mut T {
    value as *const T as *mut T
}

fn rid_cstring(s: &str, fn_name: &str) -> *mut i8 {
    match std::ffi::CString::new(s) {
        Ok(c) => c.into_raw() as *mut i8,
        Err(_) => rid_abort(fn_name, "string contains a nul byte"),
    }
}

extern "C" {
    fn free(ptr: *mut std::ffi::c_void);
}

fn rid_take_string(ptr: *mut i8, fn_name: &str, arg: &str) -> String {
    if ptr.is_null() {
        rid_abort(fn_name, &format!("argument ` + "`{}`" + ` is null", arg));
    }
    let bytes = unsafe { std::ffi::CStr::from_ptr(ptr as *const std::os::raw::c_char) }
        .to_bytes()
        .to_vec();
    unsafe { free(ptr as *mut std::ffi::c_void) };
    match String::from_utf8(bytes) {
        Ok(s) => s,
        Err(_) => rid_abort(fn_name, &format!("argument ` + "`{}`" + ` is not valid UTF-8", arg)),
    }
}

fn rid_borrow_str<'a>(ptr: *const i8, fn_name: &str, arg: &str) -> &'a str {
    if ptr.is_null() {
        rid_abort(fn_name, &format!("argument ` + "`{}`" + ` is null", arg));
    }
    match unsafe { std::ffi::CStr::from_ptr(ptr as *const std::os::raw::c_char) }.to_str() {
        Ok(s) => s,
        Err(_) => rid_abort(fn_name, &format!("argument ` + "`{}`" + ` is not valid UTF-8", arg)),
    }
}

#[repr(C)]
#[derive(Clone, Copy)]
pub struct RidVec<T> {
    ptr: *mut T,
    len: usize,
    capacity: usize,
}

impl<T: Copy> RidVec<T> {
    fn from_vec(v: Vec<T>) -> Self {
        let mut v = std::mem::ManuallyDrop::new(v);
        RidVec {
            ptr: v.as_mut_ptr(),
            len: v.len(),
            capacity: v.capacity(),
        }
    }

    fn get(&self, idx: usize, fn_name: &str) -> T {
        if idx >= self.len {
            rid_abort(fn_name, "index out of bounds");
        }
        unsafe { *self.ptr.add(idx) }
    }

    fn free(self) {
        unsafe { drop(Vec::from_raw_parts(self.ptr, self.len, self.capacity)) }
    }
}

#[repr(C)]
#[derive(Clone, Copy)]
pub struct RidStr {
    ptr: *const u8,
    len: usize,
}

impl RidStr {
    fn new(s: &str) -> Self {
        RidStr {
            ptr: s.as_ptr(),
            len: s.len(),
        }
    }
}
`

func (g *gen) emitRuntime() {
	g.w.WriteString(runtime)
	if g.p.CStringFree {
		g.exported("rid_cstring_free(ptr: *mut i8)")
		g.w.Open("if !ptr.is_null()")
		g.w.Line("unsafe { drop(std::ffi::CString::from_raw(ptr as *mut std::os::raw::c_char)) }")
		g.w.Close()
		g.w.Close()
	}
}
