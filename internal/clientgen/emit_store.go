package clientgen

import (
	"rid/internal/format"
	"rid/internal/plan"
)

func (g *gen) emitReplyChannel() {
	w := g.w
	w.Blank()
	w.Line("/// Receives replies posted by the store; registered with the native side on first use.")
	w.Line("final rid.ReplyChannel replyChannel = rid.ReplyChannel(_dl.rid_init_reply_isolate);")
}

func (g *gen) emitStore(s *plan.Store, msg *plan.Message) {
	w := g.w
	w.Blank()
	w.Linef("/// Handle to the mutex-guarded %s.", s.Ident)
	w.Open("class Store")
	w.Line("static Store? _instance;")
	w.Blank()
	w.Linef("%s _store;", s.Pointer)
	w.Line("int _lockDepth = 0;")
	w.Blank()
	w.Line("Store._(this._store);")
	w.Blank()
	w.Open("static Store get instance")
	w.Line("final existing = _instance;")
	w.Open("if (existing != null)")
	w.Line("return existing;")
	w.Close()
	// init returns with the lock held
	w.Linef("final store = Store._(_dl.%s());", s.Init)
	w.Linef("_dl.%s();", s.Unlock)
	w.Line("return _instance = store;")
	w.Close()
	w.Blank()
	w.Line("/// Runs [fn] with the store locked; nested calls reuse the held lock.")
	w.Openf("T runLocked<T>(T Function(%s store) fn)", s.Pointer)
	w.Open("if (_lockDepth == 0)")
	w.Linef("_store = _dl.%s();", s.Lock)
	w.Close()
	w.Line("_lockDepth++;")
	w.Open("try")
	w.Line("return fn(_store);")
	w.Close("} finally {")
	w.IndentPush()
	w.Line("_lockDepth--;")
	w.Open("if (_lockDepth == 0)")
	w.Linef("_dl.%s();", s.Unlock)
	w.Close()
	w.Close()
	w.Close()
	w.Blank()
	w.Open("void dispose()")
	w.Linef("_dl.%s();", s.Free)
	w.Line("_lockDepth = 0;")
	w.Line("_instance = null;")
	w.Close()

	if msg != nil {
		for _, v := range msg.Variants {
			w.Blank()
			c := &call{args: []string{"reqId"}}
			if v.Payload != nil {
				c.params = append(c.params, v.Payload.DartType()+" payload")
				c.args = append(c.args, c.toNative("payload", *v.Payload))
			}
			w.Openf("Future<rid.PostedReply> %s(%s)", v.DartIdent, format.Commas(c.params))
			w.Open("if (_lockDepth != 0)")
			w.Linef("throw StateError('%s cannot be sent while the store is locked');", v.DartIdent)
			w.Close()
			w.Line("final reqId = replyChannel.nextReqId();")
			w.Line("final reply = replyChannel.reply(reqId);")
			w.Linef("_dl.%s(%s);", v.Symbol, format.Commas(c.args))
			w.Line("return reply;")
			w.Close()
		}
	}
	w.Close()
}

func (g *gen) emitReply(r *plan.Reply) {
	w := g.w
	var names []string
	for _, v := range r.Variants {
		names = append(names, v.Ident)
	}
	w.Blank()
	w.Doc(r.Docs)
	w.Linef("enum %s { %s }", r.Ident, format.Commas(names))
	w.Blank()
	w.Openf("extension Rid_Reply_%s on rid.PostedReply", r.Ident)
	w.Linef("%s get %s => %s.values[slot];", r.Ident, replyGetter(r.Ident), r.Ident)
	w.Close()
}
