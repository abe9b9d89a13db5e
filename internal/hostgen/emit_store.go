package hostgen

import (
	"fmt"
	"strings"

	"rid/internal/abi"
	"rid/internal/plan"
	"rid/internal/token"
)

func (g *gen) emitStore(s *plan.Store) {
	w := g.w
	msg := s.Message
	if msg == "" {
		msg = "()"
	}
	w.Blank()
	w.Open("pub trait RidStore<M>")
	w.Line("fn create() -> Self;")
	w.Line("fn update(&mut self, req_id: u64, msg: M);")
	w.Close()
	w.Blank()
	w.Linef("static RID_STORE: std::sync::Mutex<Option<%s>> = std::sync::Mutex::new(None);", s.Ident)
	w.Blank()
	w.Open("thread_local!")
	w.Linef("static RID_STORE_GUARD: std::cell::RefCell<Option<std::sync::MutexGuard<'static, Option<%s>>>> =", s.Ident)
	w.Line("    std::cell::RefCell::new(None);")
	w.Close()

	g.exported("%s() -> *mut %s", s.Init, s.Raw)
	w.Line("let mut store = RID_STORE.lock().unwrap_or_else(|e| e.into_inner());")
	w.Open("if store.is_none()")
	w.Linef("*store = Some(<%s as RidStore<%s>>::create());", s.Ident, msg)
	w.Close()
	w.Line("drop(store);")
	w.Linef("%s()", s.Lock)
	w.Close()

	g.exported("%s() -> *mut %s", s.Lock, s.Raw)
	w.Open("RID_STORE_GUARD.with(|cell|")
	w.Line("let mut held = cell.borrow_mut();")
	w.Open("if held.is_none()")
	w.Line("*held = Some(RID_STORE.lock().unwrap_or_else(|e| e.into_inner()));")
	w.Close()
	w.Open("match held.as_mut().and_then(|guard| guard.as_mut())")
	w.Linef("Some(store) => store as *mut %s,", s.Raw)
	w.Linef("None => rid_abort(%q, \"store is not initialized\"),", s.Lock)
	w.Close()
	w.Close("})")
	w.Close()

	g.exported("%s()", s.Unlock)
	w.Open("RID_STORE_GUARD.with(|cell|")
	w.Line("cell.borrow_mut().take();")
	w.Close("});")
	w.Close()

	g.exported("%s()", s.Free)
	w.Linef("%s();", s.Unlock)
	w.Line("let mut store = RID_STORE.lock().unwrap_or_else(|e| e.into_inner());")
	w.Line("*store = None;")
	w.Close()
}

func (g *gen) emitMessages(m *plan.Message) {
	w := g.w
	w.Blank()
	w.Line("/// Applies msg to the store, reusing the guard when this thread holds the lock.")
	w.Openf("fn rid_store_update(req_id: u64, msg: %s, fn_name: &str)", m.Enum)
	w.Line("let mut msg = Some(msg);")
	w.Open("RID_STORE_GUARD.with(|cell|")
	w.Open("if let Some(guard) = cell.borrow_mut().as_mut()")
	w.Open("match guard.as_mut()")
	w.Line("Some(store) => store.update(req_id, msg.take().unwrap()),")
	w.Line("None => rid_abort(fn_name, \"store is not initialized\"),")
	w.Close()
	w.Close()
	w.Close("});")
	w.Open("if let Some(msg) = msg")
	w.Line("let mut store = RID_STORE.lock().unwrap_or_else(|e| e.into_inner());")
	w.Open("match store.as_mut()")
	w.Line("Some(store) => store.update(req_id, msg),")
	w.Line("None => rid_abort(fn_name, \"store is not initialized\"),")
	w.Close()
	w.Close()
	w.Close()

	for _, v := range m.Variants {
		if v.Payload == nil {
			g.exported("%s(req_id: u64)", v.Symbol)
			w.Linef("let msg = %s::%s;", m.Enum, token.RawIdent(v.Ident))
		} else {
			g.exported("%s(req_id: u64, payload: %s)", v.Symbol, v.Payload.RustType())
			arg := &plan.Arg{Ident: "payload", Bind: *v.Payload}
			if stmt := fromABI(arg, v.Symbol); stmt != "" {
				w.Line(stmt)
			}
			w.Linef("let msg = %s::%s(payload);", m.Enum, token.RawIdent(v.Ident))
		}
		w.Linef("rid_store_update(req_id, msg, %q);", v.Symbol)
		w.Close()
	}
}

func (g *gen) emitReplyPort() {
	w := g.w
	w.Blank()
	w.Line("static RID_REPLY_PORT: std::sync::atomic::AtomicI64 = std::sync::atomic::AtomicI64::new(0);")

	g.exported("rid_init_reply_isolate(port: i64)")
	w.Line("RID_REPLY_PORT.store(port, std::sync::atomic::Ordering::SeqCst);")
	w.Close()

	w.Blank()
	w.Line("/// Posts a reply to the client isolate; false when no port is registered.")
	w.Open("pub fn rid_post<R: allo_isolate::IntoDart>(reply: R) -> bool")
	w.Line("let port = RID_REPLY_PORT.load(std::sync::atomic::Ordering::SeqCst);")
	w.Open("if port == 0")
	w.Line("return false;")
	w.Close()
	w.Line("allo_isolate::Isolate::new(port).post(reply)")
	w.Close()

	w.Blank()
	w.Open("fn rid_reply_header(slot: u32, req_id: u64) -> i64")
	w.Line("(slot as u64 | ((req_id as u32 as u64) << 32)) as i64")
	w.Close()
}

func (g *gen) emitReply(r *plan.Reply) {
	w := g.w
	w.Blank()
	w.Openf("impl %s", r.Ident)
	w.Open("pub fn rid_encode(&self) -> String")
	w.Open("match self")
	for _, v := range r.Variants {
		var binds []string
		req := "0"
		if v.HasReqID {
			binds = append(binds, "req_id")
			req = "*req_id"
		}
		if v.HasPayload {
			binds = append(binds, "payload")
		}
		pat := r.Ident + "::" + token.RawIdent(v.Ident)
		if len(binds) > 0 {
			pat += "(" + strings.Join(binds, ", ") + ")"
		}
		header := fmt.Sprintf("rid_reply_header(%d, %s)", v.Slot, req)
		if v.HasPayload {
			w.Linef("%s => format!(\"{}^{}\", %s, payload),", pat, header)
		} else {
			w.Linef("%s => %s.to_string(),", pat, header)
		}
	}
	w.Close()
	w.Close()
	w.Close()

	w.Blank()
	w.Openf("impl allo_isolate::IntoDart for %s", r.Ident)
	w.Open("fn into_dart(self) -> allo_isolate::ffi::DartCObject")
	w.Line("allo_isolate::IntoDart::into_dart(self.rid_encode())")
	w.Close()
	w.Close()
}

func (g *gen) emitVec(v *plan.Vec) {
	w := g.w
	w.Blank()
	w.Linef("pub type %s = RidVec<%s>;", v.Alias, v.ElemRust)

	g.exported("%s(vec: %s) -> usize", v.Len, v.Alias)
	w.Line("vec.len")
	w.Close()

	g.exported("%s(vec: %s, idx: usize) -> %s", v.Get, v.Alias, v.ElemRust)
	w.Linef("vec.get(idx, %q)", v.Get)
	w.Close()

	g.exported("%s(vec: %s)", v.Free, v.Alias)
	w.Line("vec.free()")
	w.Close()
}

func (g *gen) emitMap(m *plan.Map) {
	w := g.w
	k, val := m.K.Name(), m.V.Name()
	w.Blank()
	w.Linef("pub type %s = std::collections::HashMap<%s, %s>;", m.Alias, k, val)

	g.exported("%s(map: *const %s) -> usize", m.Len, m.Alias)
	w.Linef("rid_ref(map, %q).len()", m.Len)
	w.Close()

	g.exported("%s(map: *const %s, key: %s) -> *const %s", m.Get, m.Alias, k, val)
	w.Openf("match rid_ref(map, %q).get(&key)", m.Get)
	w.Linef("Some(value) => value as *const %s,", val)
	w.Line("None => std::ptr::null(),")
	w.Close()
	w.Close()

	g.exported("%s(map: *const %s, key: %s) -> bool", m.ContainsKey, m.Alias, k)
	w.Linef("rid_ref(map, %q).contains_key(&key)", m.ContainsKey)
	w.Close()

	g.exported("%s(map: *const %s) -> %s", m.Keys, m.Alias, abi.VecAlias(m.KeysVec.Key))
	w.Linef("RidVec::from_vec(rid_ref(map, %q).keys().copied().collect())", m.Keys)
	w.Close()
}
