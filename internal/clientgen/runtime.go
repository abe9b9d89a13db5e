package clientgen

// Runtime returns the runtime module every generated wrapper imports. It
// does not depend on the plan.
func Runtime() []byte {
	return []byte(runtimeSource)
}

const runtimeSource = Header + `
// ignore_for_file: camel_case_types

import 'dart:async';
import 'dart:convert';
import 'dart:ffi';
import 'dart:io';
import 'dart:isolate';

import 'package:ffi/ffi.dart';

/// Opens the native library [name] the way each platform names it.
DynamicLibrary openLibrary(String name) {
  if (Platform.isIOS) {
    return DynamicLibrary.process();
  }
  if (Platform.isMacOS) {
    return DynamicLibrary.open('lib$name.dylib');
  }
  if (Platform.isWindows) {
    return DynamicLibrary.open('$name.dll');
  }
  return DynamicLibrary.open('lib$name.so');
}

/// Reads a nul-terminated UTF-8 string owned by the native side.
String readString(Pointer<Int8> ptr) => ptr.cast<Utf8>().toDartString();

/// Reads and releases a string the native side handed over.
String takeString(Pointer<Int8> ptr, void Function(Pointer<Int8>) free) {
  try {
    return readString(ptr);
  } finally {
    free(ptr);
  }
}

String? takeOptString(Pointer<Int8> ptr, void Function(Pointer<Int8>) free) =>
    ptr == nullptr ? null : takeString(ptr, free);

Pointer<T>? nullablePointer<T extends NativeType>(Pointer<T> ptr) =>
    ptr == nullptr ? null : ptr;

String decodeUtf8(Pointer<Uint8> ptr, int len) =>
    len == 0 ? '' : utf8.decode(ptr.asTypedList(len));

/// Copies [s] into memory from the C allocator. Owned string parameters
/// are released by the native side; borrowed ones with [freeNativeString].
Pointer<Int8> toNativeString(String s) =>
    s.toNativeUtf8(allocator: malloc).cast<Int8>();

void freeNativeString(Pointer<Int8> ptr) => malloc.free(ptr);

class RidVecIterator<T> implements Iterator<T> {
  final int _length;
  final T Function(int) _at;
  int _idx = -1;

  RidVecIterator(this._length, this._at);

  @override
  T get current => _at(_idx);

  @override
  bool moveNext() {
    if (_idx + 1 >= _length) {
      return false;
    }
    _idx++;
    return true;
  }
}

/// A reply as posted by the store: the variant slot, the request id it
/// answers (0 when the variant carries none) and an optional payload.
class PostedReply {
  final int slot;
  final int reqId;
  final String? payload;

  const PostedReply(this.slot, this.reqId, [this.payload]);

  static PostedReply decode(String wire) {
    final sep = wire.indexOf('^');
    final head = int.parse(sep < 0 ? wire : wire.substring(0, sep));
    final payload = sep < 0 ? null : wire.substring(sep + 1);
    return PostedReply(head & 0xffffffff, (head >> 32) & 0xffffffff, payload);
  }

  @override
  String toString() => 'PostedReply(slot: $slot, reqId: $reqId, payload: $payload)';
}

/// Routes posted replies to the request awaiting them; replies nobody
/// waits for go to [unmatched].
class ReplyChannel {
  final void Function(int port) _register;
  final _pending = <int, Completer<PostedReply>>{};
  final _unmatched = StreamController<PostedReply>.broadcast();
  ReceivePort? _port;
  int _lastReqId = 0;

  ReplyChannel(this._register);

  Stream<PostedReply> get unmatched {
    _listen();
    return _unmatched.stream;
  }

  /// Request ids stay within 32 bits and skip 0.
  int nextReqId() {
    _lastReqId = _lastReqId == 0xffffffff ? 1 : _lastReqId + 1;
    return _lastReqId;
  }

  Future<PostedReply> reply(int reqId) {
    _listen();
    return _pending.putIfAbsent(reqId, () => Completer<PostedReply>()).future;
  }

  void _listen() {
    if (_port != null) {
      return;
    }
    final port = ReceivePort();
    port.listen((message) {
      final reply = PostedReply.decode(message as String);
      final waiter = _pending.remove(reply.reqId);
      if (waiter != null) {
        waiter.complete(reply);
      } else {
        _unmatched.add(reply);
      }
    });
    _register(port.sendPort.nativePort);
    _port = port;
  }

  void dispose() {
    _port?.close();
    _port = null;
    _unmatched.close();
  }
}
`
